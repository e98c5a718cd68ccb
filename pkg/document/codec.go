package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalYAML encodes the jobs as a mapping in insertion order.
func (j *Jobs) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	var err error
	j.Each(func(name string, job Job) {
		if err != nil {
			return
		}
		var value yaml.Node
		if err = value.Encode(job); err != nil {
			err = fmt.Errorf("job %s: %w", name, err)
			return
		}
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}
		node.Content = append(node.Content, key, &value)
	})
	if err != nil {
		return nil, err
	}
	return node, nil
}

// UnmarshalYAML decodes a job mapping, keeping the order of its keys.
func (j *Jobs) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: jobs must be a mapping", value.Line)
	}
	j.names = nil
	j.byName = make(map[string]Job, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: job name must be a string", key.Line)
		}
		if val.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: job %q must be a mapping", val.Line, key.Value)
		}
		var job Job
		if err := val.Decode(&job); err != nil {
			return fmt.Errorf("job %q: %w", key.Value, err)
		}
		j.Set(key.Value, job)
	}
	return nil
}

// MarshalJSON encodes the jobs as an object in insertion order.
func (j *Jobs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range j.Names() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		job, _ := j.Get(name)
		val, err := json.Marshal(job)
		if err != nil {
			return nil, fmt.Errorf("job %s: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a job object, keeping the order of its keys.
func (j *Jobs) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("jobs must be an object")
	}
	j.names = nil
	j.byName = make(map[string]Job)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("job name must be a string")
		}
		var job Job
		if err := dec.Decode(&job); err != nil {
			return fmt.Errorf("job %q: %w", name, err)
		}
		j.Set(name, job)
	}
	_, err = dec.Token()
	return err
}
