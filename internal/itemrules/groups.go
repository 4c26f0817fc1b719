package itemrules

import (
	"fmt"

	"github.com/connect4systems/c4pricing-cli/internal/doc"
)

// Item group names the rules refer to.
const (
	GroupSubAssemblies = "Sub Assemblies"
	GroupProducts      = "Products"
	GroupAsset         = "Asset"
	GroupAccessorise   = "Accessorise"
	GroupServices      = "Services"
	GroupMaterials     = "Materials"
)

// RuleKind says how a GroupRule restricts item_group.
type RuleKind int

const (
	Unrestricted RuleKind = iota
	// Exact allows only the named group.
	Exact
	// ChildrenOf allows direct children of the named group.
	ChildrenOf
	// Subtree allows leaf groups anywhere under the named group.
	Subtree
)

func (k RuleKind) String() string {
	switch k {
	case Exact:
		return "exactly"
	case ChildrenOf:
		return "children of"
	case Subtree:
		return "leaf groups under"
	default:
		return "any group"
	}
}

// Bounds are the nested-set limits of an item group.
type Bounds struct {
	Lft int `json:"lft"`
	Rgt int `json:"rgt"`
}

// ItemGroup is the part of an Item Group record the rules look at.
type ItemGroup struct {
	Name    string `json:"name"`
	Parent  string `json:"parent_item_group"`
	Lft     int    `json:"lft"`
	Rgt     int    `json:"rgt"`
	IsGroup int    `json:"is_group"`
}

// GroupRule is the item_group constraint of one item type.
type GroupRule struct {
	Kind  RuleKind
	Group string
	// Force means item_group must be set to Group.
	Force bool
	// Bounds of Group, required before a Subtree rule can filter.
	Bounds *Bounds
}

// GroupRuleFor returns the constraint for an item type. materialsRoot names
// the root of the materials tree; empty means "Materials".
func GroupRuleFor(itemType, materialsRoot string) GroupRule {
	if materialsRoot == "" {
		materialsRoot = GroupMaterials
	}
	switch Normalize(itemType) {
	case TypePart, TypeWIP:
		return GroupRule{Kind: Exact, Group: GroupSubAssemblies, Force: true}
	case TypeStandardProduct, TypeCustomizedProduct:
		return GroupRule{Kind: ChildrenOf, Group: GroupProducts}
	case TypeAssetItem, TypeAsset:
		return GroupRule{Kind: ChildrenOf, Group: GroupAsset}
	case TypeAccessories:
		return GroupRule{Kind: ChildrenOf, Group: GroupAccessorise}
	case TypeServices, TypeService:
		return GroupRule{Kind: Exact, Group: GroupServices, Force: true}
	case TypeMaterialItem:
		return GroupRule{Kind: Subtree, Group: materialsRoot}
	}
	return GroupRule{Kind: Unrestricted}
}

// NeedsBounds reports whether the rule cannot filter until its bounds are
// known.
func (r GroupRule) NeedsBounds() bool {
	return r.Kind == Subtree && r.Bounds == nil
}

// WithBounds returns the rule with the subtree limits filled in.
func (r GroupRule) WithBounds(b Bounds) GroupRule {
	r.Bounds = &b
	return r
}

// Fallback is used when the subtree bounds cannot be fetched: direct
// children of the same root.
func (r GroupRule) Fallback() GroupRule {
	return GroupRule{Kind: ChildrenOf, Group: r.Group}
}

// Filters renders the rule as Item Group list filters. A Subtree rule
// without bounds degrades to its fallback.
func (r GroupRule) Filters() []doc.Filter {
	switch r.Kind {
	case Exact:
		return []doc.Filter{doc.Eq("name", r.Group)}
	case ChildrenOf:
		return []doc.Filter{doc.Eq("parent_item_group", r.Group)}
	case Subtree:
		if r.Bounds == nil {
			return r.Fallback().Filters()
		}
		return []doc.Filter{
			{Field: "lft", Op: ">=", Value: r.Bounds.Lft},
			{Field: "rgt", Op: "<=", Value: r.Bounds.Rgt},
			doc.Eq("is_group", 0),
		}
	}
	return nil
}

// Allows reports whether a group satisfies the rule.
func (r GroupRule) Allows(g ItemGroup) bool {
	switch r.Kind {
	case Exact:
		return g.Name == r.Group
	case ChildrenOf:
		return g.Parent == r.Group
	case Subtree:
		if r.Bounds == nil {
			return r.Fallback().Allows(g)
		}
		return g.Lft >= r.Bounds.Lft && g.Rgt <= r.Bounds.Rgt && g.IsGroup == 0
	}
	return true
}

// ForceGroup sets item_group when the rule pins it and the item differs.
func (r GroupRule) ForceGroup(item doc.Doc) doc.Patch {
	var p doc.Patch
	if r.Force && item.Str(FieldItemGroup) != r.Group {
		p.Set(FieldItemGroup, r.Group)
	}
	return p
}

func (r GroupRule) String() string {
	if r.Kind == Unrestricted {
		return r.Kind.String()
	}
	s := fmt.Sprintf("%s %q", r.Kind, r.Group)
	if r.Force {
		s += " (forced)"
	}
	if r.Bounds != nil {
		s += fmt.Sprintf(" [lft>=%d, rgt<=%d]", r.Bounds.Lft, r.Bounds.Rgt)
	}
	return s
}
