package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SetValue sets one dotted key (e.g. "device.url") in the config file.
// It preserves the existing YAML structure and comments, creating
// intermediate mappings as needed. The file is created if it doesn't exist.
func SetValue(configPath, key, value string) error {
	parts := strings.Split(key, ".")
	for _, p := range parts {
		if p == "" {
			return fmt.Errorf("invalid key %q", key)
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var root yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &root); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	if root.Kind == 0 {
		root = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}},
		}
	}

	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return fmt.Errorf("invalid YAML document structure")
	}

	node := root.Content[0]
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping at document root")
	}

	for i, part := range parts {
		last := i == len(parts)-1
		child := findMapValue(node, part)

		if last {
			if child == nil {
				node.Content = append(node.Content, strNode(part), scalarNode(value))
				break
			}
			if child.Kind != yaml.ScalarNode {
				return fmt.Errorf("'%s' is a section, not a value", strings.Join(parts[:i+1], "."))
			}
			child.Value = value
			child.Tag = scalarNode(value).Tag
			child.Style = 0
			break
		}

		if child == nil {
			child = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			node.Content = append(node.Content, strNode(part), child)
		}
		if child.Kind != yaml.MappingNode {
			return fmt.Errorf("'%s' is a value, not a section", strings.Join(parts[:i+1], "."))
		}
		node = child
	}

	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&root); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	encoder.Close()

	if err := os.WriteFile(configPath, []byte(buf.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// WriteDefault writes a commented config file populated from cfg.
// It refuses to overwrite an existing file unless force is set.
func WriteDefault(configPath string, cfg *Config, force bool) error {
	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists", configPath)
		}
	}
	return os.WriteFile(configPath, []byte(RenderYAML(cfg)), 0600)
}

// RenderYAML renders cfg as a commented .lui.yaml. Durations are written in
// their string form so the file stays hand-editable.
func RenderYAML(cfg *Config) string {
	var b strings.Builder
	w := func(format string, args ...interface{}) { fmt.Fprintf(&b, format+"\n", args...) }

	w("version: %d", cfg.Version)
	w("")
	w("# Printer control API")
	w("device:")
	w("  url: %s", quote(cfg.Device.URL))
	w("  api_key: %s", quote(cfg.Device.APIKey))
	w("  timeout: %s", cfg.Device.Timeout)
	w("")
	w("# Push events; url is derived from device.url when empty")
	w("push:")
	w("  url: %s", quote(cfg.Push.URL))
	w("  reconnect: %s", cfg.Push.Reconnect)
	w("")
	w("# Local lock: wrong codes allowed before a cooldown, and its length")
	w("lock:")
	w("  max_attempts: %d", cfg.Lock.MaxAttempts)
	w("  cooldown: %s", cfg.Lock.Cooldown)
	w("  tick: %s", cfg.Lock.Tick)
	w("")
	w("# Must cover the settings panel's open/close animation")
	w("flyout:")
	w("  transition_delay: %s", cfg.Flyout.TransitionDelay)
	w("")
	w("panel:")
	w("  local: %t", cfg.Panel.Local)
	w("  logged_in: %t", cfg.Panel.LoggedIn)
	w("  toast_duration: %s", cfg.Panel.ToastDuration)
	w("")
	w("output:")
	w("  color: %s", cfg.Output.Color)
	w("")
	w("# Used by 'lui simulate'")
	w("simulator:")
	w("  addr: %s", quote(cfg.Simulator.Addr))
	w("  api_key: %s", quote(cfg.Simulator.APIKey))
	w("  lock_code: %s", quote(cfg.Simulator.LockCode))
	w("  lock_enabled: %t", cfg.Simulator.LockEnabled)
	w("  cooldown: %s", cfg.Simulator.Cooldown)

	return b.String()
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}

func strNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

// scalarNode picks a tag so that "3" stays an int and "true" a bool.
func scalarNode(v string) *yaml.Node {
	var probe interface{}
	if err := yaml.Unmarshal([]byte(v), &probe); err == nil {
		switch probe.(type) {
		case int:
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: v}
		case bool:
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: v}
		case float64:
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: v}
		}
	}
	return strNode(v)
}

// findMapValue finds a value in a mapping node by key name.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.Value == key {
			return valueNode
		}
	}

	return nil
}
