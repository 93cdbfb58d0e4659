package fake

import (
	"encoding/json"

	"go.dedis.ch/caisse/serde"
)

// Message is a fake implementation of a serde message.
//
// - implements serde.Message
type Message struct {
	Data []byte
	Err  error
}

// Serialize implements serde.Message.
func (m Message) Serialize(ctx serde.Context) ([]byte, error) {
	return m.Data, m.Err
}

// MessageFactory is a fake implementation of a serde factory.
//
// - implements serde.Factory
type MessageFactory struct {
	Msg serde.Message
	Err error
}

// Deserialize implements serde.Factory.
func (f MessageFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	return f.Msg, f.Err
}

// Format is a fake implementation of a format engine.
//
// - implements serde.FormatEngine
type Format struct {
	Msg  serde.Message
	Data []byte
	Err  error
	Call *Call
}

// Encode implements serde.FormatEngine.
func (f Format) Encode(ctx serde.Context, m serde.Message) ([]byte, error) {
	f.Call.Add(ctx, m)

	return f.Data, f.Err
}

// Decode implements serde.FormatEngine.
func (f Format) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	f.Call.Add(ctx, data)

	return f.Msg, f.Err
}

// ContextEngine is a fake implementation of a serde context engine.
//
// - implements serde.ContextEngine
type ContextEngine struct {
	Format serde.Format
	Err    error
}

// NewContext returns a fake serde context.
func NewContext() serde.Context {
	return serde.NewContext(ContextEngine{
		Format: "fake",
	})
}

// NewContextWithFormat returns a fake serde context that advertises the
// given format.
func NewContextWithFormat(f serde.Format) serde.Context {
	return serde.NewContext(ContextEngine{
		Format: f,
	})
}

// NewBadContext returns a fake serde context that produces errors when
// marshaling or unmarshaling.
func NewBadContext() serde.Context {
	return serde.NewContext(ContextEngine{
		Format: "fake",
		Err:    GetError(),
	})
}

// GetFormat implements serde.ContextEngine.
func (ctx ContextEngine) GetFormat() serde.Format {
	return ctx.Format
}

// Marshal implements serde.ContextEngine.
func (ctx ContextEngine) Marshal(m interface{}) ([]byte, error) {
	if ctx.Err != nil {
		return nil, ctx.Err
	}

	return json.Marshal(m)
}

// Unmarshal implements serde.ContextEngine.
func (ctx ContextEngine) Unmarshal(data []byte, m interface{}) error {
	if ctx.Err != nil {
		return ctx.Err
	}

	return json.Unmarshal(data, m)
}
