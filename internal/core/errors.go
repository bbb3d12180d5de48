package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorGenerator builds the errors records and proxies report.
type ErrorGenerator interface {
	ReceivedCountError(r Record) error
	UnexpectedMessageError(receiver *Object, method string, args []any) error
}

// DefaultErrorGenerator produces ExpectationError values.
type DefaultErrorGenerator struct{}

// ReceivedCountError reports a record whose call count is wrong.
func (DefaultErrorGenerator) ReceivedCountError(r Record) error {
	receiver := "<unknown>"

	if me, ok := r.(interface{ receiver() *Object }); ok && me.receiver() != nil {
		receiver = me.receiver().String()
	}

	return &ExpectationError{
		Receiver: receiver,
		Method:   r.MethodName(),
		Expected: r.ExpectedCount(),
		Actual:   r.ActualCount(),
		From:     r.ExpectedFrom(),
	}
}

// UnexpectedMessageError reports a call no record accepts.
func (DefaultErrorGenerator) UnexpectedMessageError(receiver *Object, method string, args []any) error {
	return &UnexpectedMessageError{Receiver: receiver.String(), Method: method, Args: args}
}

// ExpectationError reports a record whose call-count constraint failed.
type ExpectationError struct {
	Receiver string
	Method   string
	Expected CountSpec
	Actual   int
	From     string
}

func (e *ExpectationError) Error() string {
	msg := fmt.Sprintf("(%s).%s: expected: %s, received: %s",
		e.Receiver, e.Method, e.Expected, times(e.Actual))

	if e.From != "" && e.From != IgnoredBacktraceLine {
		msg += " (expected at " + e.From + ")"
	}

	return msg
}

// Unwrap lets errors.Is match ErrExpectationFailed.
func (e *ExpectationError) Unwrap() error {
	return ErrExpectationFailed
}

// MethodNotStubbedError reports an attempt to remove a stub that is not there.
type MethodNotStubbedError struct {
	Method string
}

func (e *MethodNotStubbedError) Error() string {
	return fmt.Sprintf("The method `%s` was not stubbed or was already unstubbed", e.Method)
}

// Unwrap lets errors.Is match ErrMethodNotStubbed.
func (e *MethodNotStubbedError) Unwrap() error {
	return ErrMethodNotStubbed
}

// UnexpectedMessageError reports a call that no expectation or stub accepts.
type UnexpectedMessageError struct {
	Receiver string
	Method   string
	Args     []any
}

func (e *UnexpectedMessageError) Error() string {
	args := make([]string, len(e.Args))
	for i, arg := range e.Args {
		args[i] = fmt.Sprintf("%#v", arg)
	}

	return fmt.Sprintf("%s received unexpected message :%s with (%s)",
		e.Receiver, e.Method, strings.Join(args, ", "))
}

// Unwrap lets errors.Is match ErrUnexpectedMessage.
func (e *UnexpectedMessageError) Unwrap() error {
	return ErrUnexpectedMessage
}

// Exported variables.
var (
	ErrExpectationFailed = errors.New("expectation failed")
	ErrMethodNotStubbed  = errors.New("method not stubbed")
	ErrUnexpectedMessage = errors.New("unexpected message")
)
