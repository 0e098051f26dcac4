package interview

import (
	"fmt"
	"time"
)

// turnMode selects which instructions accompany the conversation context.
// The mode is derived from input shape alone, never from stored state.
type turnMode int

const (
	// modeStart opens the interview: empty history and no SME response.
	modeStart turnMode = iota
	// modeRespond continues after a fresh SME answer.
	modeRespond
	// modeResume picks a conversation back up with no new input.
	modeResume
)

// selectMode derives the turn mode from the input shape.
func selectMode(historyLen int, smeResponse string) turnMode {
	switch {
	case smeResponse != "":
		return modeRespond
	case historyLen == 0:
		return modeStart
	default:
		return modeResume
	}
}

// systemPrompt fixes the interviewer persona and the completion contract.
const systemPrompt = `You are an experienced technical interviewer documenting industrial equipment knowledge before it is lost. You are interviewing a subject-matter expert about one specific piece of equipment.

Ask one clear question at a time. Cover operating procedures, startup and shutdown, common failure modes, troubleshooting steps, maintenance routines, and safety hazards. Keep questions concrete and grounded in what the expert has already said.

When every core topic has been covered in sufficient depth, thank the expert and include the literal token ` + CompletionSentinel + ` in your reply. Never emit that token before the interview is genuinely complete.`

// buildPrompt assembles the per-turn user message: conversation context plus
// mode-specific instructions.
func buildPrompt(mode turnMode, contextText, smeResponse string) string {
	switch mode {
	case modeStart:
		return fmt.Sprintf(`%s

Open the interview: greet the expert by name, briefly explain the goal of documenting this equipment, and ask your first question.`, contextText)
	case modeRespond:
		return fmt.Sprintf(`%s

The expert just said:
%q

Acknowledge their answer. If the answer is shorter than about 30 words, ask a follow-up question to draw out more detail. Otherwise move on to the next uncovered topic. If all core topics are now covered, close the interview and include the completion token.`, contextText, smeResponse)
	default: // modeResume
		return fmt.Sprintf(`%s

The session was interrupted. Continue the interview from the conversation above: restate where you left off in one sentence and ask the next question.`, contextText)
	}
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
