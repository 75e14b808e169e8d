// Package journal reads systemd journal entries in the `journalctl -o json`
// format and turns them into model.LogRecord values.
package journal

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/valyala/fastjson"

	"github.com/ozgurozkan01/pyLog/internal/model"
)

var ErrNotObject = errors.New("journal entry is not a JSON object")

var parsers fastjson.ParserPool

// ParseLine normalizes a single JSON journal entry.
func ParseLine(line []byte) (model.LogRecord, error) {
	p := parsers.Get()
	defer parsers.Put(p)

	v, err := p.ParseBytes(line)
	if err != nil {
		return model.LogRecord{}, fmt.Errorf("parse journal entry: %w", err)
	}
	return FromValue(v, string(line))
}

// FromValue normalizes an already parsed entry. raw is kept verbatim as the
// record's Raw text.
func FromValue(v *fastjson.Value, raw string) (model.LogRecord, error) {
	obj, err := v.Object()
	if err != nil {
		return model.LogRecord{}, ErrNotObject
	}

	rec := model.LogRecord{Priority: model.DefaultPriority, Raw: raw}
	obj.Visit(func(key []byte, val *fastjson.Value) {
		f := toField(string(key), val)
		rec.Fields = append(rec.Fields, f)
		apply(&rec, f, val)
	})
	return rec, nil
}

func toField(name string, v *fastjson.Value) model.Field {
	switch v.Type() {
	case fastjson.TypeString:
		return model.Field{Name: name, Value: string(v.GetStringBytes()), Kind: model.KindString}
	case fastjson.TypeNumber:
		return model.Field{Name: name, Value: v.String(), Kind: model.KindNumber}
	case fastjson.TypeTrue, fastjson.TypeFalse:
		return model.Field{Name: name, Value: v.String(), Kind: model.KindBool}
	case fastjson.TypeNull:
		return model.Field{Name: name, Kind: model.KindNull}
	default:
		return model.Field{Name: name, Value: v.String(), Kind: model.KindNested}
	}
}

func apply(rec *model.LogRecord, f model.Field, v *fastjson.Value) {
	switch f.Name {
	case model.KeyCursor:
		rec.Cursor = f.Value
	case model.KeyTimestamp:
		rec.TimestampRaw = f.Value
		if ts, err := strconv.ParseInt(f.Value, 10, 64); err == nil && ts > 0 {
			rec.Timestamp = ts
		}
	case model.KeyHostname:
		rec.Hostname = f.Value
	case model.KeyPriority:
		if p, err := strconv.Atoi(f.Value); err == nil {
			rec.Priority = p
		}
	case model.KeyIdentifier:
		rec.Identifier = f.Value
	case model.KeyComm:
		rec.Comm = f.Value
	case model.KeyUnit:
		rec.Unit = f.Value
	case model.KeyPID:
		rec.PID = f.Value
	case model.KeyMessage:
		if f.Kind == model.KindNested {
			rec.Message = decodeByteArray(v)
		} else {
			rec.Message = f.Value
		}
	case model.KeyTransport:
		rec.Transport = f.Value
	case model.KeyBootID:
		rec.BootID = f.Value
	case "id":
		if id, err := strconv.ParseInt(f.Value, 10, 64); err == nil {
			rec.ID = id
		}
	case "source_ip":
		rec.SourceIP = f.Value
	}
}

// decodeByteArray handles journalctl's encoding of non-UTF-8 messages as
// an array of byte values.
func decodeByteArray(v *fastjson.Value) string {
	arr, err := v.Array()
	if err != nil {
		return v.String()
	}
	buf := make([]byte, 0, len(arr))
	for _, item := range arr {
		b, err := item.Int()
		if err != nil || b < 0 || b > 255 {
			return v.String()
		}
		buf = append(buf, byte(b))
	}
	if !utf8.Valid(buf) {
		return strconv.QuoteToASCII(string(buf))
	}
	return string(buf)
}

// FieldsOf returns the record's ordered fields. Records built in code
// rather than parsed carry no Fields, so they are synthesized from the
// typed values.
func FieldsOf(rec model.LogRecord) []model.Field {
	if len(rec.Fields) > 0 {
		return rec.Fields
	}
	var fields []model.Field
	add := func(name, value string) {
		if value != "" {
			fields = append(fields, model.Field{Name: name, Value: value, Kind: model.KindString})
		}
	}
	add(model.KeyCursor, rec.Cursor)
	if rec.TimestampRaw != "" {
		add(model.KeyTimestamp, rec.TimestampRaw)
	} else if rec.Timestamp != 0 {
		add(model.KeyTimestamp, strconv.FormatInt(rec.Timestamp, 10))
	}
	add(model.KeyHostname, rec.Hostname)
	add(model.KeyPriority, strconv.Itoa(rec.Priority))
	add(model.KeyIdentifier, rec.Identifier)
	add(model.KeyComm, rec.Comm)
	add(model.KeyUnit, rec.Unit)
	add(model.KeyPID, rec.PID)
	add(model.KeyMessage, rec.Message)
	add(model.KeyTransport, rec.Transport)
	add(model.KeyBootID, rec.BootID)
	return fields
}
