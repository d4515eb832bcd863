package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"pandemic/internal/engine"
	"pandemic/internal/errx"
)

// ErrBadMessage is returned for envelopes that cannot be decoded.
var ErrBadMessage = errx.NewBiz("BAD_MESSAGE", "malformed message")

// Envelope is the wrapper for every machine-readable message.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope creates an envelope with a JSON-encoded payload.
func NewEnvelope(typ string, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: typ, Payload: data}, nil
}

// MustEnvelope is like NewEnvelope but panics on error.
func MustEnvelope(typ string, payload any) Envelope {
	e, err := NewEnvelope(typ, payload)
	if err != nil {
		panic(err)
	}
	return e
}

// ParseEnvelope decodes one JSON line.
func ParseEnvelope(line []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(bytes.TrimSpace(line), &env); err != nil {
		return Envelope{}, ErrBadMessage.WithCause(err)
	}
	if env.Type == "" {
		return Envelope{}, ErrBadMessage.WithData("reason", "missing type")
	}
	return env, nil
}

// DecodeAction turns an action envelope into an engine action; the envelope
// type is the action type.
func DecodeAction(env Envelope) (engine.Action, error) {
	action := engine.Action{Type: engine.ActionType(env.Type)}
	if err := decodePayload(env, &action); err != nil {
		return engine.Action{}, err
	}
	action.Type = engine.ActionType(env.Type)
	return action, nil
}

// DecodeNewGame reads a new_game payload.
func DecodeNewGame(env Envelope) (NewGameMsg, error) {
	var msg NewGameMsg
	err := decodePayload(env, &msg)
	return msg, err
}

// DecodeQuery reads the payload of a status, hand, connections or city query.
func DecodeQuery(env Envelope) (QueryMsg, error) {
	var msg QueryMsg
	err := decodePayload(env, &msg)
	return msg, err
}

// decodePayload goes through a generic map so loosely typed input ("3" for
// a number, "red" for a color) decodes the same way as strict JSON.
func decodePayload(env Envelope, out any) error {
	if len(env.Payload) == 0 {
		return nil
	}
	var raw map[string]any
	if err := json.Unmarshal(env.Payload, &raw); err != nil {
		return ErrBadMessage.WithData("type", env.Type).WithCause(err)
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(colorHook, mapstructure.StringToSliceHookFunc(",")),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "json",
		Result:           out,
	})
	if err != nil {
		return ErrBadMessage.WithCause(err)
	}
	if err := dec.Decode(raw); err != nil {
		return ErrBadMessage.WithData("type", env.Type).WithCause(err)
	}
	return nil
}

var colorType = reflect.TypeOf(engine.Color(0))

func colorHook(from, to reflect.Type, data any) (any, error) {
	if to != colorType || from.Kind() != reflect.String {
		return data, nil
	}
	return engine.ParseColor(data.(string))
}

// NewErrorMsg describes err for the client, keeping the code and data of
// coded errors.
func NewErrorMsg(err error) ErrorMsg {
	msg := ErrorMsg{Message: err.Error()}
	var e *errx.Error
	if errors.As(err, &e) {
		msg.Code = e.CodeText()
		msg.Message = e.Msg()
		msg.Data = e.Data()
	}
	msg.Message = strings.TrimSpace(msg.Message)
	return msg
}
