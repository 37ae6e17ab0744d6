package directory

import "sort"

type Entry struct {
	ChildStatus  string `json:"childStatus"`
	FamilyStatus string `json:"familyStatus"`
	BillingCycle string `json:"billingCycle"`
}

type key struct {
	center string
	child  string
}

// Directory maps (center, child) pairs to their status attributes.
type Directory struct {
	entries  map[key]Entry
	children map[string][]string
}

func New() *Directory {
	return &Directory{
		entries:  make(map[key]Entry),
		children: make(map[string][]string),
	}
}

// Add registers an entry. A later entry for the same pair replaces the earlier one.
func (d *Directory) Add(center, child string, entry Entry) {
	k := key{center: center, child: child}
	if _, exists := d.entries[k]; !exists {
		d.children[center] = append(d.children[center], child)
	}
	d.entries[k] = entry
}

func (d *Directory) Lookup(center, child string) (Entry, bool) {
	entry, ok := d.entries[key{center: center, child: child}]
	return entry, ok
}

// Children returns the children of a center in order of first appearance.
func (d *Directory) Children(center string) []string {
	return d.children[center]
}

// FirstChild returns the first listed child of a center, or "".
func (d *Directory) FirstChild(center string) string {
	children := d.children[center]
	if len(children) == 0 {
		return ""
	}
	return children[0]
}

func (d *Directory) Centers() []string {
	centers := make([]string, 0, len(d.children))
	for center := range d.children {
		centers = append(centers, center)
	}
	sort.Strings(centers)
	return centers
}

func (d *Directory) ChildrenByCenter() map[string][]string {
	result := make(map[string][]string, len(d.children))
	for center, children := range d.children {
		result[center] = append([]string(nil), children...)
	}
	return result
}

// Details returns center -> child -> entry.
func (d *Directory) Details() map[string]map[string]Entry {
	result := make(map[string]map[string]Entry, len(d.children))
	for k, entry := range d.entries {
		if result[k.center] == nil {
			result[k.center] = make(map[string]Entry)
		}
		result[k.center][k.child] = entry
	}
	return result
}
