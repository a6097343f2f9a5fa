package effects_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/on-the-ground/interpret_ive_go/effects"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// echo is the tiny effect family shared by the tests in this package.
type sayEffect struct{ Msg string }

func (sayEffect) EffectName() string { return "echo.say" }

type reverseEffect struct{ Msg string }

func (reverseEffect) EffectName() string { return "echo.reverse" }

var echoFamily = effects.NewFamily("echo", "echo.say", "echo.reverse")

func newEchoInterpreter() effects.Interpreter {
	return effects.InterpreterFunc(func(_ context.Context, eff effects.Effect) (any, error) {
		switch e := eff.(type) {
		case sayEffect:
			return e.Msg, nil
		case reverseEffect:
			runes := []rune(e.Msg)
			for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
				runes[i], runes[j] = runes[j], runes[i]
			}
			return string(runes), nil
		default:
			return nil, fmt.Errorf("unexpected echo variant: %s", eff.EffectName())
		}
	})
}

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}

func observedMessages(logs *observer.ObservedLogs) []string {
	var msgs []string
	for _, entry := range logs.All() {
		msgs = append(msgs, entry.Message)
	}
	return msgs
}

func containsMessage(logs *observer.ObservedLogs, want string) bool {
	for _, msg := range observedMessages(logs) {
		if strings.Contains(msg, want) {
			return true
		}
	}
	return false
}
