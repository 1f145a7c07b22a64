package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arlunn/munin/internal/models"
)

const parserPrompt = `You are a command parser for a personal AI assistant named Munin integrated with a markdown note vault. Interpret natural language commands to perform actions. The allowed actions are:
- "search": search for files containing a keyword. Parameter: "keyword".
- "read": read the contents of a file. Parameter: "filename".
- "write": overwrite a file's content. Parameters: "filename" and "content".
- "append": add content to the end of a file. Parameters: "filename" and "content".
- "create": create a new file. Parameters: "filename" and "content".
- "assignment": add an assignment to the todo list (append to "todo.md"). Parameter: "assignment".
- "generate_note": generate detailed markdown notes based on provided content. Parameters: "source", "note_title", optionally "location", optionally "followup".
- "settings": the user wants to adjust assistant settings. Parameters: "setting" and "value".
- "vault": explore the vault structure. No parameters.
- "chat": for any other conversation. Parameter: "message".
For note generation, trigger if the input includes phrases like "create markdown notes", "take notes", "create a note", or "make notes". Extract the source content, the desired note title (indicated by words like "called" or "titled"), the location (indicated by "save it in"), and an optional continuation (indicated by "continue on to").
Respond with a single JSON object and nothing else.
Examples:
Input: "Show me my to do list"
Output: {"action": "read", "filename": "todo.md"}
Input: "Add test to my to do list"
Output: {"action": "assignment", "assignment": "test"}
Input: "Change theme to dark mode"
Output: {"action": "settings", "setting": "theme", "value": "dark"}
Input: "Show me my vault structure"
Output: {"action": "vault"}
Input: "Create markdown notes for this <pasted content> called 8.2 Selection Sort, save it in data structures, continue on to 8.4 Shell Sort"
Output: {"action": "generate_note", "source": "<pasted content>", "note_title": "8.2 Selection Sort.md", "location": "data structures", "followup": "8.4 Shell Sort"}
Input: "Hello, how are you?"
Output: {"action": "chat", "message": "Hello, how are you?"}
Now parse the following input:
%q`

// Interpreter turns free text into a structured Command via the LLM.
type Interpreter struct {
	client Client
}

// NewInterpreter creates an Interpreter backed by the given client.
func NewInterpreter(client Client) *Interpreter {
	return &Interpreter{client: client}
}

// ParseCommand asks the model to interpret the input. Any failure, on the
// wire or in decoding, degrades to a chat command carrying the raw input —
// the assistant never refuses a message because parsing broke.
func (i *Interpreter) ParseCommand(ctx context.Context, input, model string) models.Command {
	raw, err := i.client.Complete(ctx, model, []Message{
		{Role: "system", Content: fmt.Sprintf(parserPrompt, input)},
	})
	if err != nil {
		return models.Command{Action: models.ActionChat, Message: input}
	}
	return DecodeCommand(raw, input)
}

// DecodeCommand decodes the model's JSON reply into a Command, tolerating a
// Markdown code fence around the object. fallback is used as the chat
// message when decoding fails.
func DecodeCommand(raw, fallback string) models.Command {
	var cmd models.Command
	if err := json.Unmarshal([]byte(stripFences(raw)), &cmd); err != nil || cmd.Action == "" {
		return models.Command{Action: models.ActionChat, Message: fallback}
	}
	return cmd
}

// stripFences removes a surrounding ```json ... ``` fence if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:] // drop the language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
