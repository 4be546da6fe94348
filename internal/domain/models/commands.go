package models

import "strings"

// CommandType enumerates supported park keeper command categories.
type CommandType string

const (
	CommandAdd     CommandType = "add"
	CommandRemove  CommandType = "remove"
	CommandFind    CommandType = "find"
	CommandTop     CommandType = "top"
	CommandStats   CommandType = "stats"
	CommandDiets   CommandType = "diets"
	CommandUnknown CommandType = "unknown"
)

// Command represents a parsed keeper instruction extracted from WhatsApp text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command instance from free-form text messages.
// Only the command head is case-folded: species names are matched exactly,
// so arguments keep the casing the sender typed.
func ParseCommand(message string) Command {
	tokens := strings.Fields(message)
	cmd := Command{Raw: message}

	if len(tokens) == 0 {
		cmd.Type = CommandUnknown
		return cmd
	}

	head := CommandType(strings.TrimPrefix(strings.ToLower(tokens[0]), "/"))
	switch head {
	case CommandAdd, CommandRemove, CommandFind, CommandTop, CommandStats, CommandDiets:
		cmd.Type = head
	default:
		cmd.Type = CommandUnknown
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}
