package engine

// Stub is an inert Engine: reads return 0, writes and connections do
// nothing. It lets mapping code run its load-time setup without a host.
type Stub struct{}

// NewStub returns a fresh inert engine.
func NewStub() *Stub {
	return &Stub{}
}

func (s *Stub) GetValue(group, key string) float64 {
	return 0
}

func (s *Stub) SetValue(group, key string, value float64) {}

func (s *Stub) GetParameter(group, key string) float64 {
	return 0
}

func (s *Stub) SetParameter(group, key string, value float64) {}

func (s *Stub) ToggleControl(group, key string) {}

func (s *Stub) MakeConnection(group, key string, callback Callback) Connection {
	return inertConnection{}
}

type inertConnection struct{}

func (inertConnection) Disconnect() {}
func (inertConnection) Trigger()    {}

// Discard is a MIDI sink that drops every message.
var Discard MIDI = discard{}

type discard struct{}

func (discard) SendShortMsg(status, data1, data2 byte) {}
