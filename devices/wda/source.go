package wda

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mobile-next/mobile-mcp/types"
	"github.com/mobile-next/mobile-mcp/utils"
)

type sourceElementRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// sourceElement is a node of WDA's accessibility tree in json format.
type sourceElement struct {
	Type          string            `json:"type"`
	Label         *string           `json:"label"`
	Name          *string           `json:"name"`
	Value         *string           `json:"value"`
	RawIdentifier *string           `json:"rawIdentifier"`
	IsVisible     string            `json:"isVisible"`
	Rect          sourceElementRect `json:"rect"`
	Children      []sourceElement   `json:"children"`
}

// interactableTypes always make it into the element list, even without a
// label or name, since the agent may still want to tap them.
var interactableTypes = map[string]bool{
	"TextField":   true,
	"Button":      true,
	"Switch":      true,
	"SearchField": true,
}

var acceptedTypes = map[string]bool{
	"TextField":   true,
	"Button":      true,
	"Switch":      true,
	"Icon":        true,
	"SearchField": true,
	"StaticText":  true,
	"Image":       true,
}

func onScreen(rect sourceElementRect) bool {
	return rect.X >= 0 && rect.Y >= 0
}

// filterSourceElements flattens the accessibility tree into the elements an
// agent can act on: visible, of an accepted type, and either interactable or
// carrying some identifying text.
func filterSourceElements(source sourceElement) []types.ScreenElement {
	var output []types.ScreenElement

	if acceptedTypes[source.Type] && source.IsVisible == "1" && onScreen(source.Rect) {
		hasIdentifier := source.Label != nil || source.Name != nil || source.RawIdentifier != nil
		if hasIdentifier || interactableTypes[source.Type] {
			output = append(output, types.ScreenElement{
				Type:       source.Type,
				Label:      source.Label,
				Name:       source.Name,
				Value:      source.Value,
				Identifier: source.RawIdentifier,
				Rect: types.ScreenElementRect{
					X:      source.Rect.X,
					Y:      source.Rect.Y,
					Width:  source.Rect.Width,
					Height: source.Rect.Height,
				},
			})
		}
	}

	for _, child := range source.Children {
		output = append(output, filterSourceElements(child)...)
	}

	return output
}

// GetSourceRaw fetches the full accessibility tree. Deep hierarchies can take
// a while to serialize, so this uses a longer timeout than other endpoints.
func (c *Client) GetSourceRaw() (interface{}, error) {
	startTime := time.Now()

	result, err := c.getEndpointWithTimeout("source?format=json", sourceRequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to get source: %w", err)
	}

	value, ok := result["value"]
	if !ok {
		return nil, fmt.Errorf("no 'value' field found in WDA response")
	}

	utils.Verbose("GetSourceRaw took %.2f seconds", time.Since(startTime).Seconds())
	return value, nil
}

// GetSourceElements returns the on-screen elements from the accessibility tree.
func (c *Client) GetSourceElements() ([]types.ScreenElement, error) {
	value, err := c.GetSourceRaw()
	if err != nil {
		return nil, err
	}

	valueBytes, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value: %w", err)
	}

	var sourceTree sourceElement
	if err := json.Unmarshal(valueBytes, &sourceTree); err != nil {
		return nil, fmt.Errorf("failed to parse source tree: %w", err)
	}

	return filterSourceElements(sourceTree), nil
}
