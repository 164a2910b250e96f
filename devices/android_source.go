package devices

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/mobile-next/mobile-mcp/types"
	"github.com/mobile-next/mobile-mcp/utils"
)

// uiautomator transiently fails with this sentinel when the
// accessibility bridge has no window yet; the dump is retried.
const nullRootNodeSentinel = "null root node returned by UiTestAutomationBridge"

const maxDumpAttempts = 10

type uiAutomatorXml struct {
	XMLName  xml.Name           `xml:"hierarchy"`
	RootNode uiAutomatorXmlNode `xml:"node"`
}

type uiAutomatorXmlNode struct {
	Class       string               `xml:"class,attr"`
	Text        string               `xml:"text,attr"`
	ContentDesc string               `xml:"content-desc,attr"`
	Hint        string               `xml:"hint,attr"`
	ResourceID  string               `xml:"resource-id,attr"`
	Bounds      string               `xml:"bounds,attr"`
	Focused     string               `xml:"focused,attr"`
	Nodes       []uiAutomatorXmlNode `xml:"node"`
}

func (d *AndroidRobot) ElementsOnScreen() ([]types.ScreenElement, error) {
	root, err := d.dumpSource()
	if err != nil {
		return nil, err
	}

	return d.collectElements(*root), nil
}

// dumpSource runs `uiautomator dump` with a bounded retry around the
// transient null-root-node failure.
func (d *AndroidRobot) dumpSource() (*uiAutomatorXmlNode, error) {
	var lastOutput string

	for attempt := 1; attempt <= maxDumpAttempts; attempt++ {
		output, err := d.runHeavy("exec-out", "uiautomator", "dump", "/dev/tty")
		if err != nil {
			return nil, fmt.Errorf("failed to dump ui hierarchy: %v", err)
		}

		text := string(output)
		if strings.Contains(text, nullRootNodeSentinel) {
			lastOutput = text
			utils.Verbose("ui dump attempt %d/%d returned null root node, retrying", attempt, maxDumpAttempts)
			time.Sleep(250 * time.Millisecond)
			continue
		}

		// output is the XML prologue plus a trailing status line, keep
		// the hierarchy element only
		start := strings.Index(text, "<hierarchy")
		if start < 0 {
			return nil, fmt.Errorf("unexpected uiautomator output: %q", strings.TrimSpace(text))
		}
		end := strings.LastIndex(text, "</hierarchy>")
		if end < 0 {
			return nil, fmt.Errorf("truncated uiautomator output")
		}

		var uiXml uiAutomatorXml
		if err := xml.Unmarshal([]byte(text[start:end+len("</hierarchy>")]), &uiXml); err != nil {
			return nil, fmt.Errorf("failed to parse ui hierarchy: %v", err)
		}

		return &uiXml.RootNode, nil
	}

	return nil, fmt.Errorf("ui hierarchy dump failed after %d attempts: %s", maxDumpAttempts, strings.TrimSpace(lastOutput))
}

// getScreenElementRect parses uiautomator bounds of the form
// "[x1,y1][x2,y2]" into a rect.
func (d *AndroidRobot) getScreenElementRect(bounds string) types.ScreenElementRect {
	var x1, y1, x2, y2 int
	n, err := fmt.Sscanf(bounds, "[%d,%d][%d,%d]", &x1, &y1, &x2, &y2)
	if err != nil || n != 4 {
		return types.ScreenElementRect{}
	}

	return types.ScreenElementRect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// collectElements flattens the node tree, keeping nodes that carry at
// least one of text/content-desc/hint and have a positive area.
func (d *AndroidRobot) collectElements(node uiAutomatorXmlNode) []types.ScreenElement {
	var elements []types.ScreenElement

	if node.Text != "" || node.ContentDesc != "" || node.Hint != "" {
		rect := d.getScreenElementRect(node.Bounds)
		if rect.Width > 0 && rect.Height > 0 {
			element := types.ScreenElement{
				Type: node.Class,
				Rect: rect,
			}

			if element.Type == "" {
				element.Type = "text"
			}

			if node.Text != "" {
				element.Text = strPtr(node.Text)
			}

			// content-desc and hint both land in the label slot
			if node.ContentDesc != "" {
				element.Label = strPtr(node.ContentDesc)
			} else if node.Hint != "" {
				element.Label = strPtr(node.Hint)
			}

			if node.ResourceID != "" {
				element.Identifier = strPtr(node.ResourceID)
			}

			// focus only matters for d-pad navigation
			if d.tv && node.Focused == "true" {
				focused := true
				element.Focused = &focused
			}

			elements = append(elements, element)
		}
	}

	for _, child := range node.Nodes {
		elements = append(elements, d.collectElements(child)...)
	}

	return elements
}

func strPtr(s string) *string {
	return &s
}
