package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	m "github.com/mouse-blink/bugscope/internal/model"
)

type envelope struct {
	Type    *string         `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type setCurrentProcessPayload struct {
	ProcessName *string `json:"processName"`
}

type updateStatsPayload struct {
	Stats *statsWire `json:"stats"`
}

type statsWire struct {
	BugStats      []bugFrequencyWire `json:"bugStats"`
	Successes     *int               `json:"successes"`
	TotalAttempts *int               `json:"totalAttempts"`
}

type bugFrequencyWire struct {
	Name   *string `json:"name"`
	Amount *int    `json:"amount"`
}

type splitFilePayload struct {
	Regions []regionWire `json:"regions"`
}

type regionWire struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	TotalLines  *int    `json:"totalLines"`
	BuggyLines  *int    `json:"buggyLines"`
}

type selectRegionPayload struct {
	SelectedRegion json.RawMessage `json:"selectedRegion"`
}

type selectBugPayload struct {
	Bug  *bugWire  `json:"bug"`
	Line *lineWire `json:"line"`
}

type bugWire struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Justification *string `json:"justification"`
}

type lineWire struct {
	LineNumber    *int    `json:"lineNumber"`
	Before        *string `json:"before"`
	After         *string `json:"after"`
	Justification *string `json:"justification"`
}

type mutateLinePayload struct {
	MutatedLine *lineWire `json:"mutatedLine"`
}

type evaluatePayload struct {
	Result *evaluationWire `json:"result"`
}

type evaluationWire struct {
	Status *string `json:"status"`
	Error  *string `json:"error"`
}

// DecodeEvent parses one `{type, payload}` message into its typed event.
// Unknown fields, missing required fields and broken invariants are rejected
// with ErrMalformedMessage; an unrecognised tag yields ErrUnknownEventType.
func DecodeEvent(raw []byte) (m.Event, error) {
	var env envelope
	if err := decodeStrict(raw, &env); err != nil {
		return nil, err
	}

	if env.Type == nil {
		return nil, fmt.Errorf("%w: missing type", ErrMalformedMessage)
	}

	eventType, ok := ParseEventType(*env.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, *env.Type)
	}

	if len(env.Payload) == 0 || bytes.Equal(bytes.TrimSpace(env.Payload), []byte("null")) {
		return nil, fmt.Errorf("%w: %s without payload", ErrMalformedMessage, eventType)
	}

	event, err := decodePayload(eventType, env.Payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", eventType, err)
	}

	return event, nil
}

// ParseEventType resolves a wire tag, ignoring case and underscores.
func ParseEventType(tag string) (m.EventType, bool) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(tag), "_", ""))

	for _, eventType := range m.EventTypes {
		if strings.ToLower(string(eventType)) == key {
			return eventType, true
		}
	}

	return "", false
}

//nolint:cyclop // one branch per event tag
func decodePayload(eventType m.EventType, payload json.RawMessage) (m.Event, error) {
	switch eventType {
	case m.EventSetCurrentProcess:
		var p setCurrentProcessPayload
		if err := decodeStrict(payload, &p); err != nil {
			return nil, err
		}

		return toSetCurrentProcess(p)

	case m.EventUpdateStats:
		var p updateStatsPayload
		if err := decodeStrict(payload, &p); err != nil {
			return nil, err
		}

		return toUpdateStats(p)

	case m.EventSplitFile:
		var p splitFilePayload
		if err := decodeStrict(payload, &p); err != nil {
			return nil, err
		}

		return toSplitFile(p)

	case m.EventSelectRegion:
		var p selectRegionPayload
		if err := decodeStrict(payload, &p); err != nil {
			return nil, err
		}

		index, err := parseRegionIndex(p.SelectedRegion)
		if err != nil {
			return nil, err
		}

		return m.SelectRegion{Index: index}, nil

	case m.EventSelectBug:
		var p selectBugPayload
		if err := decodeStrict(payload, &p); err != nil {
			return nil, err
		}

		return toSelectBug(p)

	case m.EventMutateLine:
		var p mutateLinePayload
		if err := decodeStrict(payload, &p); err != nil {
			return nil, err
		}

		line, err := toLine(p.MutatedLine, "mutatedLine")
		if err != nil {
			return nil, err
		}

		return m.MutateLine{Line: line}, nil

	case m.EventEvaluate:
		var p evaluatePayload
		if err := decodeStrict(payload, &p); err != nil {
			return nil, err
		}

		return toEvaluate(p)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, eventType)
}

func toSetCurrentProcess(p setCurrentProcessPayload) (m.Event, error) {
	if p.ProcessName == nil {
		return nil, missing("processName")
	}

	stage, err := m.ParseStage(*p.ProcessName)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStage, *p.ProcessName)
	}

	return m.SetCurrentProcess{Stage: stage}, nil
}

func toUpdateStats(p updateStatsPayload) (m.Event, error) {
	if p.Stats == nil {
		return nil, missing("stats")
	}

	if p.Stats.Successes == nil {
		return nil, missing("stats.successes")
	}

	if p.Stats.TotalAttempts == nil {
		return nil, missing("stats.totalAttempts")
	}

	stats := m.Stats{
		BugStats:      make([]m.BugFrequency, 0, len(p.Stats.BugStats)),
		Successes:     *p.Stats.Successes,
		TotalAttempts: *p.Stats.TotalAttempts,
	}

	for i, freq := range p.Stats.BugStats {
		if freq.Name == nil || freq.Amount == nil {
			return nil, missing(fmt.Sprintf("stats.bugStats[%d]", i))
		}

		stats.BugStats = append(stats.BugStats, m.BugFrequency{Name: *freq.Name, Amount: *freq.Amount})
	}

	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}

	return m.UpdateStats{Stats: stats}, nil
}

func toSplitFile(p splitFilePayload) (m.Event, error) {
	if p.Regions == nil {
		return nil, missing("regions")
	}

	regions := make([]m.Region, 0, len(p.Regions))

	for i, wire := range p.Regions {
		if wire.Name == nil || wire.TotalLines == nil || wire.BuggyLines == nil {
			return nil, missing(fmt.Sprintf("regions[%d]", i))
		}

		region := m.Region{
			Name:        *wire.Name,
			Description: wire.Description,
			TotalLines:  *wire.TotalLines,
			BuggyLines:  *wire.BuggyLines,
		}
		if err := region.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
		}

		regions = append(regions, region)
	}

	return m.SplitFile{Regions: regions}, nil
}

func toSelectBug(p selectBugPayload) (m.Event, error) {
	if p.Bug == nil || p.Bug.Name == nil || p.Bug.Description == nil {
		return nil, missing("bug")
	}

	line, err := toLine(p.Line, "line")
	if err != nil {
		return nil, err
	}

	return m.SelectBug{
		Bug: m.Bug{
			Name:          *p.Bug.Name,
			Description:   *p.Bug.Description,
			Justification: p.Bug.Justification,
		},
		Line: line,
	}, nil
}

func toLine(wire *lineWire, field string) (m.VerilogLine, error) {
	if wire == nil || wire.LineNumber == nil || wire.Before == nil {
		return m.VerilogLine{}, missing(field)
	}

	return m.VerilogLine{
		LineNumber:    *wire.LineNumber,
		Before:        *wire.Before,
		After:         wire.After,
		Justification: wire.Justification,
	}, nil
}

func toEvaluate(p evaluatePayload) (m.Event, error) {
	if p.Result == nil || p.Result.Status == nil {
		return nil, missing("result.status")
	}

	result := m.EvaluationResult{
		Status: m.EvaluationStatus(*p.Result.Status),
		Error:  p.Result.Error,
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}

	return m.Evaluate{Result: result}, nil
}

// parseRegionIndex accepts a JSON integer or a numeric string.
func parseRegionIndex(raw json.RawMessage) (int, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0, missing("selectedRegion")
	}

	text := string(trimmed)

	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
		}
	}

	index, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%w: selectedRegion %s", ErrInvalidNumericField, trimmed)
	}

	if index < m.NoRegion {
		return 0, fmt.Errorf("%w: selectedRegion %d", ErrInvalidNumericField, index)
	}

	return index, nil
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data", ErrMalformedMessage)
	}

	return nil
}

func missing(field string) error {
	return fmt.Errorf("%w: missing %s", ErrMalformedMessage, field)
}
