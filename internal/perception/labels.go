// File: internal/perception/labels.go
package perception

import "fmt"

// defaultLabels is the class table of the bundled UI-element detector.
// Deployments running a different model override it through
// perception.labels in the configuration.
var defaultLabels = map[int]string{
	0:  "button",
	1:  "input",
	2:  "link",
	3:  "text",
	4:  "icon",
	5:  "image",
	6:  "checkbox",
	7:  "radio",
	8:  "dropdown",
	9:  "slider",
	10: "scrollbar",
	11: "tab",
	12: "menu",
	13: "window",
	14: "dialog",
}

// LabelTable maps integer class indices to semantic UI-category names.
type LabelTable struct {
	labels map[int]string
}

// NewLabelTable builds a label table from the configured overrides layered on
// top of the built-in defaults. Passing nil or an empty map yields the
// defaults unchanged.
func NewLabelTable(overrides map[int]string) LabelTable {
	labels := make(map[int]string, len(defaultLabels)+len(overrides))
	for id, name := range defaultLabels {
		labels[id] = name
	}
	for id, name := range overrides {
		labels[id] = name
	}
	return LabelTable{labels: labels}
}

// Label returns the category name for a class index. Unknown indices map to a
// generated "class_<id>" placeholder rather than failing: the decoder's class
// count comes from the model, not from this table, and the two may disagree.
func (t LabelTable) Label(classID int) string {
	if name, ok := t.labels[classID]; ok {
		return name
	}
	return fmt.Sprintf("class_%d", classID)
}
