package keyboard

import (
	"fmt"
	"strings"
)

// Callback actions
const (
	ActionMenu     = "menu"  // open a settings submenu
	ActionModel    = "model" // value: index into the model catalog
	ActionChunking = "chunk"
	ActionDB       = "db"
	ActionTool     = "tool"
	ActionQuarter  = "yq"
	ActionDownload = "dl" // value: <format>:<answer id>
	ActionReset    = "reset"
)

// Menu names used with ActionMenu
const (
	MenuSettings = "settings"
	MenuModel    = "model"
	MenuChunking = "chunk"
	MenuDB       = "db"
	MenuTool     = "tool"
	MenuQuarters = "yq"
)

// CallbackData represents parsed callback data
type CallbackData struct {
	Action string
	Value  string
}

// ParseCallback parses callback data string
func ParseCallback(data string) (*CallbackData, error) {
	parts := strings.SplitN(data, ":", 2)
	if len(parts) != 2 || parts[0] == "" {
		return nil, fmt.Errorf("invalid callback format: %s", data)
	}

	return &CallbackData{
		Action: parts[0],
		Value:  parts[1],
	}, nil
}

// EncodeCallback creates callback data string
func EncodeCallback(action, value string) string {
	return fmt.Sprintf("%s:%s", action, value)
}

// ParseDownload splits a download callback value into format and answer id
func ParseDownload(value string) (format, answerID string, err error) {
	format, answerID, ok := strings.Cut(value, ":")
	if !ok || format == "" || answerID == "" {
		return "", "", fmt.Errorf("invalid download value: %s", value)
	}
	return format, answerID, nil
}
