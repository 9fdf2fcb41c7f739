package locale

import "storybook/internal/game"

const baseChoiceRules = `
- NEVER use generic placeholders like "Choice A", "Choice B", "Choice C"
- Choices must relate directly to the current story scene
- Use simple, exciting verbs that children understand
- For each choice, provide 3-4 short transition sentences that describe what happens when the child picks that choice
- Transition sentences should build excitement and bridge to the next scene`

const jsonDirective = `STRICT JSON FORMAT:
You must respond ONLY with this JSON structure. No prose before or after.
`

func builtinPacks() map[game.Language]Pack {
	return map[game.Language]Pack{
		game.English: {
			LanguageInstruction: "Tell story in a simple English suitable for kindergarten.",
			ChoiceRules: `CHOICE RULES:
- Each choice MUST be written in simple English
- Each choice MUST be a specific, actionable option for the child (e.g., "Follow the butterfly", "Open the magic door", "Talk to the friendly owl")` + baseChoiceRules,
			JSONExample: jsonDirective + `{
  "storyText": "The text of the current story step.",
  "choices": ["Follow the butterfly", "Open the magic door", "Talk to the friendly owl"],
  "choicesWithTransition": [
    {"text": "Follow the butterfly", "transition": ["You chase the rainbow butterfly...", "Its wings shimmer with magic...", "It leads you to a secret garden..."]},
    {"text": "Open the magic door", "transition": ["You turn the golden doorknob...", "Bright light bursts through...", "A wonderful land appears..."]},
    {"text": "Talk to the friendly owl", "transition": ["You walk up to the wise owl...", "Its big eyes sparkle...", "It whispers a secret..."]}
  ],
  "imagePrompt": "The detailed prompt for this specific scene."
}`,
			Intro: []string{
				"🌟 Hello {name}! Your adventure is about to begin...",
				"📚 A magical book is opening its pages just for you...",
				"✨ A world of imagination awaits!",
				"🎭 Get ready for an exciting journey...",
			},
		},
		game.Thai: {
			LanguageInstruction: "Tell the story in simple Thai language suitable for young children (เขียนเรื่องเป็นภาษาไทยง่ายๆ เหมาะสำหรับเด็กเล็ก).",
			ChoiceRules: `CHOICE RULES:
- Each choice MUST be written in simple Thai language (ภาษาไทยง่ายๆ)
- Each choice MUST be a specific, actionable option for the child (e.g., "ตามผีเสื้อไป", "เปิดประตูวิเศษ", "คุยกับนกฮูก")` + baseChoiceRules,
			JSONExample: jsonDirective + `{
  "storyText": "ข้อความของเรื่องในขั้นตอนปัจจุบัน (ภาษาไทย)",
  "choices": ["ตามผีเสื้อไป", "เปิดประตูวิเศษ", "คุยกับนกฮูกใจดี"],
  "choicesWithTransition": [
    {"text": "ตามผีเสื้อไป", "transition": ["เธอวิ่งตามผีเสื้อสีรุ้ง...", "ปีกของมันเปล่งแสงวิเศษ...", "มันพาเธอไปยังสวนลับ..."]},
    {"text": "เปิดประตูวิเศษ", "transition": ["เธอหมุนลูกบิดประตู...", "แสงสว่างวาบออกมา...", "ดินแดนมหัศจรรย์ปรากฏ..."]},
    {"text": "คุยกับนกฮูกใจดี", "transition": ["เธอเดินเข้าไปหานกฮูก...", "ตาโตของมันเป็นประกาย...", "มันกระซิบความลับ..."]}
  ],
  "imagePrompt": "The detailed prompt for this specific scene (in English for image generation)."
}`,
			Intro: []string{
				"🌟 สวัสดี {name}! การผจญภัยของเธอกำลังจะเริ่มต้น...",
				"📚 หนังสือวิเศษกำลังเปิดหน้าใหม่ให้เธอ...",
				"✨ โลกแห่งจินตนาการกำลังรอเธออยู่!",
				"🎭 เตรียมพร้อมสำหรับการเดินทางที่น่าตื่นเต้น...",
			},
		},
		game.Singlish: {
			LanguageInstruction: `Tell the story in simple English with natural Singlish (Singapore English) expressions.
Use predominantly English but sprinkle in Singlish words and particles SUBTLY.
Common Singlish particles to use naturally: "lah" (emphasis), "leh" (softer/uncertain), "lor" (resignation), "meh" (questioning), "sia" (exclamation).
Common Singlish words: "wah" (wow), "shiok" (great/delicious), "alamak" (oh no), "steady" (reliable), "can" (yes).
Example: "Wah, the forest so magical lah! You want to explore, can?"
Keep it child-friendly and maintain story flow.`,
			ChoiceRules: `CHOICE RULES:
- Each choice MUST be written primarily in English with subtle Singlish expressions
- Each choice MUST be a specific, actionable option (e.g., "Follow the butterfly lah", "Wah, let's open the door", "Talk to the owl lor")
- Add Singlish particles (lah, leh, lor) naturally - not in every choice, keep it subtle` + baseChoiceRules,
			JSONExample: jsonDirective + `{
  "storyText": "Wah, the forest so magical lah! The trees all sparkling one. You see something shiny behind the bushes.",
  "choices": ["Follow the butterfly lah", "Wah open the magic door", "Talk to the owl lor"],
  "choicesWithTransition": [
    {"text": "Follow the butterfly lah", "transition": ["You chase the pretty butterfly...", "Wah its wings so shiok! Got sparkles one...", "It brings you to a secret garden..."]},
    {"text": "Wah open the magic door", "transition": ["You turn the doorknob slowly leh...", "Alamak! Bright light everywhere...", "A wonderful land appears sia!"]},
    {"text": "Talk to the owl lor", "transition": ["You walk up to the owl...", "Its big eyes look at you...", "The owl whispers a secret leh..."]}
  ],
  "imagePrompt": "The detailed prompt for this specific scene (in English for image generation)."
}`,
			Intro: []string{
				"🌟 Wah, hello {name}! Your adventure starting already lah...",
				"📚 A magic book opening just for you leh...",
				"✨ A world of imagination waiting for you sia!",
				"🎭 Get ready for one shiok journey...",
			},
		},
	}
}
