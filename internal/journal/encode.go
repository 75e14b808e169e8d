package journal

import (
	"github.com/valyala/fastjson"

	"github.com/ozgurozkan01/pyLog/internal/model"
)

var arenas fastjson.ArenaPool

// Marshal encodes rec as a JSON object with its fields in their original
// order, followed by extra. An extra field replaces an existing field of
// the same name.
func Marshal(rec model.LogRecord, extra ...model.Field) []byte {
	a := arenas.Get()
	defer arenas.Put(a)

	obj := a.NewObject()
	for _, f := range FieldsOf(rec) {
		obj.Set(f.Name, fieldValue(a, f))
	}
	for _, f := range extra {
		obj.Set(f.Name, fieldValue(a, f))
	}
	return obj.MarshalTo(nil)
}

func fieldValue(a *fastjson.Arena, f model.Field) *fastjson.Value {
	switch f.Kind {
	case model.KindNumber:
		return a.NewNumberString(f.Value)
	case model.KindBool:
		if f.Value == "true" {
			return a.NewTrue()
		}
		return a.NewFalse()
	case model.KindNull:
		return a.NewNull()
	case model.KindNested:
		v, err := fastjson.Parse(f.Value)
		if err != nil {
			return a.NewString(f.Value)
		}
		return v
	default:
		return a.NewString(f.Value)
	}
}
