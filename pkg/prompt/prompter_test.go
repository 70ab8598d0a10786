package prompt

import (
	"context"
	"errors"
	"testing"
)

type stubDriver struct {
	inputs     []string
	confirm    []bool
	selectIdx  []int
	textAreas  []string
	infos      []string
	err        error
	inputCfgs  []InputConfig
	inputPos   int
	confirmPos int
	selectPos  int
	textPos    int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.inputCfgs = append(s.inputCfgs, cfg)
	if s.err != nil {
		return "", s.err
	}
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

func TestPrompter_Confirm(t *testing.T) {
	driver := &stubDriver{confirm: []bool{true, false}}
	p := NewPrompter(driver)

	for _, want := range []bool{true, false} {
		got, err := p.Confirm(context.Background(), "Delete?")
		if err != nil {
			t.Fatalf("confirm: %v", err)
		}
		if got != want {
			t.Fatalf("confirm = %v, want %v", got, want)
		}
	}
}

func TestPrompter_AssumeYesSkipsDriver(t *testing.T) {
	p := NewPrompter(&stubDriver{})
	p.AssumeYes = true

	ok, err := p.Confirm(context.Background(), "Delete?")
	if err != nil || !ok {
		t.Fatalf("expected automatic yes, got %v, %v", ok, err)
	}
}

func TestPrompter_AbortIsNotAnError(t *testing.T) {
	p := NewPrompter(&stubDriver{err: ErrAborted})

	ok, err := p.Confirm(context.Background(), "Delete?")
	if err != nil || ok {
		t.Fatalf("aborted confirm should be a plain no, got %v, %v", ok, err)
	}
	value, err := p.Input(context.Background(), "Who?", "Ivanov Ivan")
	if err != nil || value != "" {
		t.Fatalf("aborted input should be empty, got %q, %v", value, err)
	}
}

func TestPrompter_InputUsesDefaultAndTrims(t *testing.T) {
	driver := &stubDriver{inputs: []string{"  Paul  "}}
	p := NewPrompter(driver)

	value, err := p.Input(context.Background(), "Who?", "Ivanov Ivan")
	if err != nil {
		t.Fatalf("input: %v", err)
	}
	if value != "Paul" {
		t.Fatalf("expected trimmed answer, got %q", value)
	}
	if driver.inputCfgs[0].Default != "Ivanov Ivan" || driver.inputCfgs[0].Message != "Who?" {
		t.Fatalf("unexpected prompt config %+v", driver.inputCfgs[0])
	}
}

func TestTranslateSurveyErr(t *testing.T) {
	other := errors.New("boom")
	if got := translateSurveyErr(other); got != other {
		t.Fatalf("unexpected translation %v", got)
	}
	if idx := indexOf([]string{"a", "b"}, "b"); idx != 1 {
		t.Fatalf("indexOf = %d", idx)
	}
}
