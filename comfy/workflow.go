package comfy

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Workflow is a ComfyUI API-format graph: node ID to node object. The node
// objects stay untyped since every custom node defines its own inputs.
type Workflow map[string]any

// ParseWorkflow decodes an API-format workflow export.
func ParseWorkflow(data []byte) (Workflow, error) {
	var w Workflow
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("invalid workflow JSON: %w", err)
	}
	return w, nil
}

// Mappings says which node inputs receive which injected value, keyed by
// node class_type then input name. The value is a placeholder key looked up
// in the values map at injection time.
type Mappings map[string]map[string]string

// DefaultMappings covers the node types most workflows are built from.
// Unknown node types pass through untouched.
func DefaultMappings() Mappings {
	return Mappings{
		"LoadImage":          {"image": "IMAGE"},
		"LoadAudio":          {"audio": "AUDIO", "filename": "AUDIO"},
		"CLIPTextEncode":     {"text": "PROMPT"},
		"CLIPTextEncodeSDXL": {"text_g": "PROMPT", "text_l": "PROMPT"},
		"KSampler":           {"seed": "SEED", "noise_seed": "SEED"},
		"EmptyLatentVideo":   {"frame_count": "FRAMES"},
	}
}

// Inject writes values into the workflow's node inputs according to the
// mappings. Inputs holding node links (arrays) are never overwritten, and
// inputs without a value in the values map are left alone. Returns the
// number of injections performed.
func Inject(w Workflow, mappings Mappings, values map[string]any) int {
	injected := 0
	for _, node := range w {
		nodeMap, ok := node.(map[string]any)
		if !ok {
			continue
		}
		classType, _ := nodeMap["class_type"].(string)
		inputs, _ := nodeMap["inputs"].(map[string]any)
		rules, known := mappings[classType]
		if !known || inputs == nil {
			continue
		}
		for inputKey, placeholder := range rules {
			current, exists := inputs[inputKey]
			if !exists {
				continue
			}
			if _, isLink := current.([]any); isLink {
				continue
			}
			if val, ok := values[placeholder]; ok {
				inputs[inputKey] = val
				injected++
			}
		}
	}
	return injected
}

// Placeholders reports which placeholder keys the workflow can receive,
// given the mappings. Useful for telling a user what a template expects.
func Placeholders(w Workflow, mappings Mappings) []string {
	seen := map[string]bool{}
	var keys []string
	for _, node := range w {
		nodeMap, ok := node.(map[string]any)
		if !ok {
			continue
		}
		classType, _ := nodeMap["class_type"].(string)
		inputs, _ := nodeMap["inputs"].(map[string]any)
		for inputKey, placeholder := range mappings[classType] {
			if _, exists := inputs[inputKey]; exists && !seen[placeholder] {
				seen[placeholder] = true
				keys = append(keys, placeholder)
			}
		}
	}
	return keys
}

// GuessMappings extends mappings with heuristic rules for node types it has
// not seen, based on the input names the workflow actually uses.
func GuessMappings(w Workflow, mappings Mappings) {
	for _, node := range w {
		nodeMap, ok := node.(map[string]any)
		if !ok {
			continue
		}
		classType, _ := nodeMap["class_type"].(string)
		if classType == "" {
			continue
		}
		if _, known := mappings[classType]; known {
			continue
		}
		inputs, _ := nodeMap["inputs"].(map[string]any)
		rules := map[string]string{}
		for key := range inputs {
			switch lower := strings.ToLower(key); {
			case lower == "seed" || lower == "noise_seed":
				rules[key] = "SEED"
			case lower == "text" || lower == "prompt" || lower == "positive":
				rules[key] = "PROMPT"
			case lower == "image" && strings.Contains(strings.ToLower(classType), "image"):
				rules[key] = "IMAGE"
			case lower == "frame_count" || lower == "num_frames" || lower == "video_length":
				rules[key] = "FRAMES"
			}
		}
		if len(rules) > 0 {
			mappings[classType] = rules
		}
	}
}
