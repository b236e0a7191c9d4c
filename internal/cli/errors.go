package cli

import (
	"fmt"
	"strings"
)

type choiceError struct {
	flag    string
	value   string
	choices []string
}

func (e choiceError) Error() string {
	return fmt.Sprintf("invalid --%s %q (expected %s)", e.flag, e.value, strings.Join(e.choices, "|"))
}

func errChoice(flag, value string, choices ...string) error {
	return choiceError{flag: flag, value: value, choices: choices}
}
