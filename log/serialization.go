package log

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

// LogMessageWire is the JSON wire format for a log message sent by a WASM
// guest through the log_message host function.
type LogMessageWire struct {
	Timestamp time.Time     `json:"timestamp"`
	Attrs     []LogAttrWire `json:"attrs,omitempty"`
	Level     string        `json:"level"`
	Message   string        `json:"message"`
}

// LogAttrWire is one attribute in its string form. Type tells Replay how to
// restore it; json, error and any values come back as strings.
type LogAttrWire struct {
	Key   string `json:"key"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Encode converts a slog.Record into its wire form.
func Encode(record slog.Record) LogMessageWire {
	msg := LogMessageWire{
		Level:     record.Level.String(),
		Message:   record.Message,
		Timestamp: record.Time,
	}
	record.Attrs(func(attr slog.Attr) bool {
		msg.Attrs = append(msg.Attrs, toLogAttrWire(attr))
		return true
	})
	return msg
}

// Replay emits a guest log message through logger, tagged with the guest name.
func Replay(ctx context.Context, logger *slog.Logger, guest string, msg LogMessageWire) {
	level, ok := ParseLevel(msg.Level)
	if !ok {
		level = slog.LevelInfo
	}
	attrs := make([]slog.Attr, 0, len(msg.Attrs)+1)
	attrs = append(attrs, slog.String("guest", guest))
	for _, a := range msg.Attrs {
		attrs = append(attrs, fromLogAttrWire(a))
	}
	logger.LogAttrs(ctx, level, msg.Message, attrs...)
}

// Attribute value types on the wire.
const (
	attrString   = "string"
	attrInt64    = "int64"
	attrUint64   = "uint64"
	attrBool     = "bool"
	attrFloat64  = "float64"
	attrTime     = "time"
	attrDuration = "duration"
	attrError    = "error"
	attrJSON     = "json"
	attrAny      = "any"
)

func toLogAttrWire(attr slog.Attr) LogAttrWire {
	typ, value := encodeValue(attr.Value.Resolve())
	return LogAttrWire{Key: attr.Key, Type: typ, Value: value}
}

func encodeValue(v slog.Value) (typ, value string) {
	switch v.Kind() {
	case slog.KindString:
		return attrString, v.String()
	case slog.KindInt64:
		return attrInt64, strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return attrUint64, strconv.FormatUint(v.Uint64(), 10)
	case slog.KindBool:
		return attrBool, strconv.FormatBool(v.Bool())
	case slog.KindFloat64:
		return attrFloat64, fmt.Sprintf("%f", v.Float64())
	case slog.KindTime:
		return attrTime, v.Time().Format(time.RFC3339Nano)
	case slog.KindDuration:
		return attrDuration, v.Duration().String()
	}

	raw := v.Any()
	if raw == nil {
		return attrAny, "<nil>"
	}
	if err, ok := raw.(error); ok {
		return attrError, err.Error()
	}
	if data, err := json.Marshal(raw); err == nil {
		return attrJSON, string(data)
	}
	return attrAny, fmt.Sprintf("%v", raw)
}

// fromLogAttrWire restores a typed slog.Attr where the wire type allows it.
func fromLogAttrWire(w LogAttrWire) slog.Attr {
	switch w.Type {
	case attrInt64:
		if n, err := strconv.ParseInt(w.Value, 10, 64); err == nil {
			return slog.Int64(w.Key, n)
		}
	case attrUint64:
		if n, err := strconv.ParseUint(w.Value, 10, 64); err == nil {
			return slog.Uint64(w.Key, n)
		}
	case attrBool:
		if b, err := strconv.ParseBool(w.Value); err == nil {
			return slog.Bool(w.Key, b)
		}
	case attrFloat64:
		if f, err := strconv.ParseFloat(w.Value, 64); err == nil {
			return slog.Float64(w.Key, f)
		}
	case attrTime:
		if ts, err := time.Parse(time.RFC3339Nano, w.Value); err == nil {
			return slog.Time(w.Key, ts)
		}
	case attrDuration:
		if d, err := time.ParseDuration(w.Value); err == nil {
			return slog.Duration(w.Key, d)
		}
	}
	return slog.String(w.Key, w.Value)
}
