package question

import (
	"fmt"
	"strings"
)

const promptHeader = `
You are an intelligent coding question generator.

Your job is to create an entirely new, original, high-quality coding problem. You MUST NOT copy, rephrase, or base the problem on any previously known or commonly available problems.

STRICT RULES you must follow:
1. The question must be 100% unique and never generated before, even for the same topic/difficulty.
2. The logic, use-case, data structure, and real-world context must be different from any prior problem.
3. If you repeat or slightly modify a previous problem, it is considered INVALID.
4. Do NOT hallucinate or leave placeholder values; all fields must be real and meaningful.
5. Never include filler content, markdown (like ` + "```" + `), explanations, or instructions. ONLY return pure JSON.
`

const promptSchema = `
Return only raw JSON in the following format:

{
  "id": "",
  "difficulty": "{{difficulty}}",
  "topic": "{{topic}}",
  "title": "",
  "description": "",
  "input_format": "",
  "output_format": "",
  "constraint": "",
  "example": {
    "input": "",
    "output": ""
  },
  "test_cases": [
    {
      "input": "",
      "output": ""
    },
    {
      "input": "",
      "output": ""
    }
  ],
  "tags": ["{{topic}}", "{{difficulty}}"]
}

Respond ONLY with JSON (no markdown, no explanation).
`

// buildPrompt renders the generation prompt. priorTitles, when present,
// lists already-stored problems for the topic; only the last max are kept.
func buildPrompt(topic string, difficulty Difficulty, priorTitles []string, max int) string {
	var b strings.Builder
	b.WriteString(promptHeader)

	if len(priorTitles) > 0 {
		if max > 0 && len(priorTitles) > max {
			priorTitles = priorTitles[len(priorTitles)-max:]
		}
		b.WriteString("\nThese problems already exist for this topic. Do not repeat or resemble them:\n")
		for i, title := range priorTitles {
			fmt.Fprintf(&b, "%d. %s\n", i+1, title)
		}
	}

	r := strings.NewReplacer("{{topic}}", topic, "{{difficulty}}", string(difficulty))
	b.WriteString(r.Replace(promptSchema))
	return b.String()
}
