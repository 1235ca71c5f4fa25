// Package emit serializes translated task lists into target playbook
// documents. Field order is fixed and map arguments are sorted, so two runs
// over the same input produce byte-identical output.
package emit

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/tsanders-rh/ops-translate-sub001/pkg/models"
)

// MarshalPlaybook renders the ordered task list as a single-play playbook.
func MarshalPlaybook(name string, tasks []*models.Task) ([]byte, error) {
	taskNodes := make([]*yaml.Node, 0, len(tasks))
	for _, task := range tasks {
		taskNodes = append(taskNodes, taskNode(task))
	}

	play := mappingNode()
	appendPair(play, "name", scalarNode(name))
	appendPair(play, "hosts", scalarNode("localhost"))
	appendPair(play, "gather_facts", scalarNode(false))
	appendPair(play, "tasks", &yaml.Node{Kind: yaml.SequenceNode, Content: taskNodes})

	doc := &yaml.Node{Kind: yaml.SequenceNode, Content: []*yaml.Node{play}}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal playbook: %w", err)
	}

	return data, nil
}

// WritePlaybook marshals and writes the playbook file.
func WritePlaybook(path, name string, tasks []*models.Task) error {
	data, err := MarshalPlaybook(name, tasks)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write playbook %s: %w", path, err)
	}

	return nil
}

func taskNode(task *models.Task) *yaml.Node {
	node := mappingNode()

	if task.Comment != "" {
		node.HeadComment = task.Comment
	}

	appendPair(node, "name", scalarNode(task.Name))

	if task.IsBlock() {
		appendPair(node, "block", taskListNode(task.Block))

		if len(task.Rescue) > 0 {
			appendPair(node, "rescue", taskListNode(task.Rescue))
		}

		if task.Always != nil {
			appendPair(node, "always", taskListNode(task.Always))
		}
	} else if task.Action != "" {
		appendPair(node, task.Action, argsNode(task.Args))
	}

	if task.When != "" {
		appendPair(node, "when", scalarNode(task.When))
	}

	if task.Register != "" {
		appendPair(node, "register", scalarNode(task.Register))
	}

	if task.Retries > 0 {
		appendPair(node, "retries", scalarNode(task.Retries))
		appendPair(node, "delay", scalarNode(task.Delay))
	}

	if task.Until != "" {
		appendPair(node, "until", scalarNode(task.Until))
	}

	if len(task.Tags) > 0 {
		appendPair(node, "tags", valueNode(task.Tags))
	}

	return node
}

func taskListNode(tasks []*models.Task) *yaml.Node {
	nodes := make([]*yaml.Node, 0, len(tasks))
	for _, task := range tasks {
		nodes = append(nodes, taskNode(task))
	}

	return &yaml.Node{Kind: yaml.SequenceNode, Content: nodes}
}

func argsNode(args map[string]any) *yaml.Node {
	node := mappingNode()

	keys := make([]string, 0, len(args))
	for key := range args {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		appendPair(node, key, valueNode(args[key]))
	}

	return node
}

func valueNode(value any) *yaml.Node {
	switch v := value.(type) {
	case []string:
		items := make([]*yaml.Node, 0, len(v))
		for _, item := range v {
			items = append(items, scalarNode(item))
		}

		return &yaml.Node{Kind: yaml.SequenceNode, Content: items}
	case []any:
		items := make([]*yaml.Node, 0, len(v))
		for _, item := range v {
			items = append(items, valueNode(item))
		}

		return &yaml.Node{Kind: yaml.SequenceNode, Content: items}
	case map[string]any:
		return argsNode(v)
	default:
		return scalarNode(v)
	}
}

func scalarNode(value any) *yaml.Node {
	node := &yaml.Node{Kind: yaml.ScalarNode}

	switch v := value.(type) {
	case string:
		node.Value = v
		node.Tag = "!!str"
	case bool:
		node.Value = strconv.FormatBool(v)
		node.Tag = "!!bool"
	case int:
		node.Value = strconv.Itoa(v)
		node.Tag = "!!int"
	case float64:
		node.Value = strconv.FormatFloat(v, 'g', -1, 64)
		node.Tag = "!!float"
	default:
		node.Value = fmt.Sprintf("%v", v)
		node.Tag = "!!str"
	}

	return node
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode}
}

func appendPair(node *yaml.Node, key string, value *yaml.Node) {
	node.Content = append(node.Content, scalarNode(key), value)
}
