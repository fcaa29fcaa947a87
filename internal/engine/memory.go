package engine

import "sync"

type control struct {
	group, key string
}

// Memory is an in-process Engine backed by a map. Parameters share storage
// with values. Connections fire synchronously after every write.
type Memory struct {
	mu     sync.Mutex
	values map[control]float64
	conns  map[control][]*memoryConnection

	// OnSet, when set, observes every write after it is stored.
	OnSet func(group, key string, value float64)
}

// NewMemory returns an empty in-memory engine.
func NewMemory() *Memory {
	return &Memory{
		values: make(map[control]float64),
		conns:  make(map[control][]*memoryConnection),
	}
}

func (m *Memory) GetValue(group, key string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[control{group, key}]
}

func (m *Memory) SetValue(group, key string, value float64) {
	c := control{group, key}

	m.mu.Lock()
	m.values[c] = value
	conns := append([]*memoryConnection(nil), m.conns[c]...)
	onSet := m.OnSet
	m.mu.Unlock()

	if onSet != nil {
		onSet(group, key, value)
	}
	// Callbacks run without the lock so they may read and write controls.
	for _, conn := range conns {
		conn.fire(value)
	}
}

func (m *Memory) GetParameter(group, key string) float64 {
	return m.GetValue(group, key)
}

func (m *Memory) SetParameter(group, key string, value float64) {
	m.SetValue(group, key, value)
}

func (m *Memory) ToggleControl(group, key string) {
	UpdateValue(m, group, key, 0, UpdateOptions{Toggle: true})
}

func (m *Memory) MakeConnection(group, key string, callback Callback) Connection {
	conn := &memoryConnection{
		engine:   m,
		control:  control{group, key},
		callback: callback,
	}

	m.mu.Lock()
	m.conns[conn.control] = append(m.conns[conn.control], conn)
	m.mu.Unlock()

	return conn
}

// Connections returns the number of live connections on a control.
func (m *Memory) Connections(group, key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.conns[control{group, key}])
}

func (m *Memory) remove(conn *memoryConnection) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conns := m.conns[conn.control]
	for i, c := range conns {
		if c == conn {
			m.conns[conn.control] = append(conns[:i], conns[i+1:]...)
			return
		}
	}
}

type memoryConnection struct {
	engine   *Memory
	control  control
	callback Callback

	mu           sync.Mutex
	disconnected bool
}

func (c *memoryConnection) fire(value float64) {
	c.mu.Lock()
	disconnected := c.disconnected
	c.mu.Unlock()
	if disconnected {
		return
	}
	c.callback(value, c.control.group, c.control.key)
}

func (c *memoryConnection) Trigger() {
	c.fire(c.engine.GetValue(c.control.group, c.control.key))
}

func (c *memoryConnection) Disconnect() {
	c.mu.Lock()
	if c.disconnected {
		c.mu.Unlock()
		return
	}
	c.disconnected = true
	c.mu.Unlock()

	c.engine.remove(c)
}
