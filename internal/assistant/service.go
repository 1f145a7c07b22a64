// Package assistant dispatches interpreted commands against the vault, the
// settings store, and the LLM collaborator. Every operation degrades to a
// human-readable reply string; nothing here is fatal to the host process.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/arlunn/munin/internal/apperr"
	"github.com/arlunn/munin/internal/llm"
	"github.com/arlunn/munin/internal/models"
	"github.com/arlunn/munin/internal/notes"
	"github.com/arlunn/munin/internal/settings"
	"github.com/arlunn/munin/internal/vault"
)

// Service executes interpreted commands.
type Service struct {
	vault    *vault.Vault
	writer   *notes.Writer
	client   llm.Client
	interp   *llm.Interpreter
	settings *settings.Store
	logger   *slog.Logger
}

// NewService creates the command dispatch service.
func NewService(v *vault.Vault, client llm.Client, st *settings.Store, logger *slog.Logger) *Service {
	return &Service{
		vault:    v,
		writer:   notes.NewWriter(v),
		client:   client,
		interp:   llm.NewInterpreter(client),
		settings: st,
		logger:   logger,
	}
}

// HandleMessage interprets a free-text message and executes the resulting
// command, returning the reply text.
func (s *Service) HandleMessage(ctx context.Context, input string) string {
	cmd := s.interp.ParseCommand(ctx, input, s.model())
	s.logger.Debug("command parsed", slog.String("action", cmd.Action))
	return s.Execute(ctx, cmd)
}

// Execute runs a single structured command.
func (s *Service) Execute(ctx context.Context, cmd models.Command) string {
	switch cmd.Action {
	case models.ActionSearch:
		return s.search(cmd.Keyword)
	case models.ActionRead:
		return s.read(cmd.Filename)
	case models.ActionWrite:
		return s.write(cmd.Filename, cmd.Content)
	case models.ActionAppend:
		return s.append(cmd.Filename, cmd.Content)
	case models.ActionCreate:
		return s.create(cmd.Filename, cmd.Content)
	case models.ActionAssignment:
		return s.addAssignment(cmd.Assignment)
	case models.ActionGenerateNote:
		return s.generateNote(ctx, cmd)
	case models.ActionSettings:
		return s.adjustSettings(cmd.Setting, cmd.Value)
	case models.ActionVault:
		return s.showVault()
	default:
		// chat, and anything the interpreter invents.
		msg := cmd.Message
		if msg == "" {
			msg = cmd.Content
		}
		return s.chat(ctx, msg)
	}
}

func (s *Service) model() string {
	return s.settings.Get().PreferredModel
}

func (s *Service) search(keyword string) string {
	matches, err := s.vault.SearchContent(keyword)
	if err != nil {
		return fmt.Sprintf("Error searching the vault: %v", err)
	}
	if len(matches) == 0 {
		return "No matches found for your search."
	}
	return "I found matches in these files:\n- " + strings.Join(matches, "\n- ")
}

func (s *Service) read(filename string) string {
	path, err := s.vault.ResolveFilePath(filename)
	if err == nil {
		if info, statErr := os.Stat(path); statErr != nil || info.IsDir() {
			err = apperr.ErrNotFound
		}
	}
	if err != nil {
		files := s.vault.ListFiles(10)
		return fmt.Sprintf("I couldn't find %s in your vault. Available files: %s",
			filename, strings.Join(files, ", "))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("Error reading %s: %v", filename, err)
	}
	return fmt.Sprintf("Here's the content of %s:\n\n%s", filename, data)
}

func (s *Service) write(filename, content string) string {
	path := s.resolveOrRoot(filename)
	if err := s.vault.WriteAbs(path, []byte(content)); err != nil {
		return fmt.Sprintf("Error writing to %s: %v", filename, err)
	}
	return fmt.Sprintf("I've updated %s with your new content.", filename)
}

func (s *Service) append(filename, content string) string {
	path := s.resolveOrRoot(filename)
	if err := s.vault.AppendAbs(path, []byte("\n"+content)); err != nil {
		return fmt.Sprintf("Error appending to %s: %v", filename, err)
	}
	return fmt.Sprintf("I've appended your content to %s.", filename)
}

func (s *Service) create(filename, content string) string {
	path := s.resolveOrRoot(filename)
	if _, err := os.Stat(path); err == nil {
		return fmt.Sprintf("The file %s already exists. Use 'write' to update it instead.", filename)
	}
	if err := s.vault.WriteAbs(path, []byte(content)); err != nil {
		return fmt.Sprintf("Error creating file %s: %v", filename, err)
	}
	return fmt.Sprintf("I've created %s with your content.", filename)
}

// resolveOrRoot resolves filename, falling back to the vault root when the
// folder prefix cannot be located.
func (s *Service) resolveOrRoot(filename string) string {
	path, err := s.vault.ResolveFilePath(filename)
	if err != nil {
		return filepath.Join(s.vault.Root(), filepath.Base(filename))
	}
	return path
}

func (s *Service) addAssignment(assignment string) string {
	todoPath := filepath.Join(s.vault.Root(), "todo.md")
	if _, err := os.Stat(todoPath); os.IsNotExist(err) {
		if err := s.vault.WriteAbs(todoPath, []byte("# To-Do List\n\n")); err != nil {
			return fmt.Sprintf("I encountered an error adding your assignment: %v", err)
		}
	}
	if err := s.vault.AppendAbs(todoPath, []byte(fmt.Sprintf("\n- [ ] %s", assignment))); err != nil {
		return fmt.Sprintf("I encountered an error adding your assignment: %v", err)
	}
	return fmt.Sprintf("I've added %q to your to-do list.", assignment)
}

func (s *Service) generateNote(ctx context.Context, cmd models.Command) string {
	if cmd.Source == "" && cmd.UploadedFile {
		return "File uploads aren't supported. Paste the content you'd like me to turn into a note."
	}

	content, err := llm.GenerateNote(ctx, s.client, s.model(), cmd.Source, cmd.Followup)
	if err != nil {
		return fmt.Sprintf("Error generating note: %v", err)
	}

	// No save location: the generated note itself is the reply, nothing is
	// written to the vault.
	if cmd.Location == "" {
		return content
	}

	status, err := s.writer.Save(cmd.NoteTitle, content, cmd.Location, cmd.Followup)
	if err != nil {
		if errors.Is(err, apperr.ErrFolderNotFound) {
			return fmt.Sprintf("Folder '%s' not found in vault.", cmd.Location)
		}
		return fmt.Sprintf("Error saving note: %v", err)
	}
	return status
}

func (s *Service) adjustSettings(setting, value string) string {
	if setting == "" || value == "" {
		data, err := json.MarshalIndent(s.settings.Get(), "", "  ")
		if err != nil {
			return fmt.Sprintf("Error reading settings: %v", err)
		}
		return "Here are your current settings:\n\n" + string(data)
	}
	if err := s.settings.Set(setting, value); err != nil {
		return fmt.Sprintf("I couldn't change that setting: %v", err)
	}
	return fmt.Sprintf("I've set %s to %s.", setting, value)
}

func (s *Service) showVault() string {
	tree, err := s.vault.Structure()
	if err != nil {
		return fmt.Sprintf("Error getting vault structure: %v", err)
	}
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error getting vault structure: %v", err)
	}
	return string(data)
}

func (s *Service) chat(ctx context.Context, message string) string {
	reply, err := s.client.Complete(ctx, s.model(), []llm.Message{
		{Role: "system", Content: llm.ChatSystemPrompt},
		{Role: "user", Content: message},
	})
	if err != nil {
		errText := strings.ToLower(err.Error())
		switch {
		case strings.Contains(errText, "api_key") || strings.Contains(errText, "api key"):
			return "Error: There appears to be a problem with the API key. Please check your API key configuration."
		case strings.Contains(errText, "rate limit"):
			return "Error: Rate limit exceeded. Please try again in a few moments."
		case strings.Contains(errText, "model"):
			return fmt.Sprintf("Error: Issue with the selected model (%s). The model may not be available or your account may not have access to it.", s.model())
		default:
			return fmt.Sprintf("Error calling the language model API: %v", err)
		}
	}
	return reply
}
