// Package preset reads, merges and writes Mixxx controller preset files
// (<name>.midi.xml).
package preset

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

const (
	RootElement       = "MixxxControllerPreset"
	ControllerElement = "controller"

	// Header is written in front of every saved preset.
	Header = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
)

// ErrNotPreset is returned for documents that are not controller presets.
var ErrNotPreset = errors.New("not a Mixxx controller preset")

// Preset is a loaded controller preset document.
type Preset struct {
	Root *Node
}

// Load reads the preset at path.
func Load(path string) (*Preset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open preset: %w", err)
	}
	defer f.Close()

	p, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset %s: %w", path, err)
	}
	return p, nil
}

// Decode parses a preset document. Non UTF-8 documents are converted using
// their declared encoding.
func Decode(r io.Reader) (*Preset, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel

	root, err := readTree(decoder)
	if err != nil {
		return nil, fmt.Errorf("malformed XML: %w", err)
	}
	if root.Name() != RootElement {
		return nil, fmt.Errorf("%w: root element is <%s>", ErrNotPreset, root.Name())
	}
	if root.Child(ControllerElement) == nil {
		return nil, fmt.Errorf("%w: missing <%s>", ErrNotPreset, ControllerElement)
	}

	root.normalize()
	return &Preset{Root: root}, nil
}

// readTree builds the element tree from raw tokens so prefixed names such
// as xmlns:xsi keep their prefix instead of being resolved to a namespace.
// Comments, processing instructions and directives are dropped.
func readTree(decoder *xml.Decoder) (*Node, error) {
	var (
		root  *Node
		stack []*Node
	)
	for {
		token, err := decoder.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			node := &Node{XMLName: xml.Name{Local: rawName(t.Name)}}
			for _, attr := range t.Attr {
				node.Attrs = append(node.Attrs, xml.Attr{
					Name:  xml.Name{Local: rawName(attr.Name)},
					Value: attr.Value,
				})
			}
			switch {
			case len(stack) > 0:
				parent := stack[len(stack)-1]
				parent.Nodes = append(parent.Nodes, node)
			case root != nil:
				return nil, fmt.Errorf("element <%s> after document root", node.Name())
			default:
				root = node
			}
			stack = append(stack, node)
		case xml.EndElement:
			name := rawName(t.Name)
			if len(stack) == 0 {
				return nil, fmt.Errorf("unexpected </%s>", name)
			}
			if top := stack[len(stack)-1]; top.Name() != name {
				return nil, fmt.Errorf("element <%s> closed by </%s>", top.Name(), name)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Content += string(t)
			} else if len(bytes.TrimSpace(t)) > 0 {
				return nil, errors.New("text outside the document root")
			}
		}
	}

	if root == nil {
		return nil, io.ErrUnexpectedEOF
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("unclosed element <%s>", stack[len(stack)-1].Name())
	}
	return root, nil
}

func rawName(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}


// Controller returns the controller element.
func (p *Preset) Controller() *Node {
	return p.Root.Child(ControllerElement)
}

// Controls returns the control entries in document order.
func (p *Preset) Controls() []*Node {
	return p.entries("controls", "control")
}

// Outputs returns the output entries in document order.
func (p *Preset) Outputs() []*Node {
	return p.entries("outputs", "output")
}

func (p *Preset) entries(list, item string) []*Node {
	container := p.Controller().Child(list)
	if container == nil {
		return nil
	}
	return container.Children(item)
}

// Stamp records the generation time in the info description.
func (p *Preset) Stamp(t time.Time) {
	info := p.Root.Child("info")
	if info == nil {
		info = NewParent("info")
		p.Root.Nodes = append([]*Node{info}, p.Root.Nodes...)
	}
	description := "Generated on " + t.UTC().Format("2006-01-02T15:04:05.000Z")
	if d := info.Child("description"); d != nil {
		d.Content = description
		d.Nodes = nil
		return
	}
	info.Nodes = append(info.Nodes, NewNode("description", description))
}

// Encode returns the serialized document.
func (p *Preset) Encode() ([]byte, error) {
	body, err := xml.MarshalIndent(p.Root, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode preset: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(Header)
	buf.Write(body)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Save writes the document to path. The content goes to a temporary file in
// the same directory first, which then replaces path.
func (p *Preset) Save(path string) error {
	data, err := p.Encode()
	if err != nil {
		return err
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary preset: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write preset: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync preset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close preset: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("failed to set preset permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace preset: %w", err)
	}
	return nil
}

// FormatHex formats a value the way preset files spell MIDI numbers, e.g.
// 0x96.
func FormatHex(value int) string {
	return fmt.Sprintf("0x%X", value)
}

// ParseHex parses a MIDI number written in hex (0x96) or decimal.
func ParseHex(s string) (int, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		value, err := strconv.ParseInt(rest, 16, 32)
		return int(value), err
	}
	value, err := strconv.ParseInt(s, 10, 32)
	return int(value), err
}
