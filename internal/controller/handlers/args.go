package handlers

import (
	"errors"
	"strings"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
)

var (
	errLinkUsage  = errors.New("usage: /link <teacher|student> <slug> <password>")
	errSlotsUsage = errors.New("usage: /slots <teacher_slug>")
)

type linkArgs struct {
	role     model.Role
	slug     string
	password string
}

// commandArgs аргументы после команды, "/cmd@bot a b" -> [a b]
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	return fields[1:]
}

func parseLinkArgs(text string) (linkArgs, error) {
	args := commandArgs(text)
	if len(args) != 3 {
		return linkArgs{}, errLinkUsage
	}
	role := model.Role(strings.ToLower(args[0]))
	if !role.Valid() {
		return linkArgs{}, errLinkUsage
	}
	return linkArgs{role: role, slug: args[1], password: args[2]}, nil
}

func parseSlotsArgs(text string) (string, error) {
	args := commandArgs(text)
	if len(args) != 1 {
		return "", errSlotsUsage
	}
	return args[0], nil
}
