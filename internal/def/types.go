package def

import "strings"

// Kind distinguishes the two families of definitions the registry holds.
type Kind int

const (
	// KindThing is a placeable-object definition.
	KindThing Kind = iota
	// KindTerrain is a ground-surface definition.
	KindTerrain
)

// Kinds lists every kind in registry order.
var Kinds = []Kind{KindThing, KindTerrain}

func (k Kind) String() string {
	switch k {
	case KindThing:
		return "thing"
	case KindTerrain:
		return "terrain"
	default:
		return "unknown"
	}
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k == KindThing || k == KindTerrain
}

// ParseKind maps "thing" or "terrain" to its Kind.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(s) {
	case "thing":
		return KindThing, true
	case "terrain":
		return KindTerrain, true
	default:
		return 0, false
	}
}

// Role is the closed set of object roles relevant to spawnability.
type Role int

const (
	RoleNormal Role = iota
	RoleCorpse
	RoleBlueprint
	RoleFrame
	RoleTransporter
	RoleMinified
	RoleStump
	RoleUnfinished
	RoleSignalActor

	roleCount
)

var roleNames = [...]string{
	RoleNormal:      "normal",
	RoleCorpse:      "corpse",
	RoleBlueprint:   "blueprint",
	RoleFrame:       "frame",
	RoleTransporter: "transporter",
	RoleMinified:    "minified",
	RoleStump:       "stump",
	RoleUnfinished:  "unfinished",
	RoleSignalActor: "signal_actor",
}

func (r Role) String() string {
	if !r.Valid() {
		return "invalid"
	}
	return roleNames[r]
}

// Valid reports whether r is inside the closed enumeration.
func (r Role) Valid() bool {
	return r >= RoleNormal && r < roleCount
}

// Excluded reports whether objects with this role must never be folded.
func (r Role) Excluded() bool {
	return r != RoleNormal
}

// ParseRole maps an authored role name to its Role.
func ParseRole(s string) (Role, bool) {
	for i, name := range roleNames {
		if name == s {
			return Role(i), true
		}
	}
	return 0, false
}

// classRoles maps backing class names to their role. Subclasses in a family
// share a prefix (e.g. Blueprint_Build, SignalAction_Letter).
var classRoles = []struct {
	prefix string
	role   Role
}{
	{"Corpse", RoleCorpse},
	{"Blueprint", RoleBlueprint},
	{"Frame", RoleFrame},
	{"ActiveTransporter", RoleTransporter},
	{"ActiveDropPod", RoleTransporter},
	{"MinifiedTree", RoleStump},
	{"MinifiedThing", RoleMinified},
	{"UnfinishedThing", RoleUnfinished},
	{"SignalAction", RoleSignalActor},
}

// RoleForClass derives the role of a backing class name. Unknown classes are
// RoleNormal.
func RoleForClass(class string) Role {
	for _, cr := range classRoles {
		if class == cr.prefix || strings.HasPrefix(class, cr.prefix+"_") {
			return cr.role
		}
	}
	return RoleNormal
}

// Category is the coarse object category of a thing definition.
type Category int

const (
	CategoryNone Category = iota
	CategoryItem
	CategoryPlant
	CategoryPawn
	CategoryBuilding
	CategoryProjectile
	CategoryMote
	CategoryEthereal
	CategoryFilth
	CategoryGas
	CategoryAttachment

	categoryCount
)

var categoryNames = [...]string{
	CategoryNone:       "None",
	CategoryItem:       "Item",
	CategoryPlant:      "Plant",
	CategoryPawn:       "Pawn",
	CategoryBuilding:   "Building",
	CategoryProjectile: "Projectile",
	CategoryMote:       "Mote",
	CategoryEthereal:   "Ethereal",
	CategoryFilth:      "Filth",
	CategoryGas:        "Gas",
	CategoryAttachment: "Attachment",
}

func (c Category) String() string {
	if !c.Valid() {
		return "Invalid"
	}
	return categoryNames[c]
}

// Valid reports whether c is inside the closed enumeration.
func (c Category) Valid() bool {
	return c >= CategoryNone && c < categoryCount
}

// ParseCategory maps an authored category name (case-insensitive) to its
// Category.
func ParseCategory(s string) (Category, bool) {
	for i, name := range categoryNames {
		if strings.EqualFold(name, s) {
			return Category(i), true
		}
	}
	return 0, false
}

// Definition is a named static-data record. Identity is pointer identity:
// two *Definition values are the same definition only if they are equal
// pointers.
type Definition struct {
	Name      string
	Label     string
	Kind      Kind
	ShortHash uint16

	// Thing-only attributes.
	ThingClass          string
	Category            Category
	Role                Role
	ForceDebugSpawnable bool
	DestroyOnDrop       bool

	// AllRecipes is the consumer recipe cache: every recipe this definition
	// can perform. Nil for definitions that consume no recipes.
	AllRecipes []*Recipe
}

func (d *Definition) String() string {
	if d == nil {
		return "<nil>"
	}
	return d.Kind.String() + ":" + d.Name
}

// Product is one declared output of a recipe.
type Product struct {
	ThingName string
	Def       *Definition
	Count     int
}

// Recipe is a crafting-recipe definition.
type Recipe struct {
	Name     string
	Label    string
	Products []Product

	// UserNames are the authored consumer names; Users are the linked
	// definitions.
	UserNames []string
	Users     []*Definition
}

// ProducedDef returns the definition of the single declared product, or nil
// when the recipe declares zero or several products.
func (r *Recipe) ProducedDef() *Definition {
	if len(r.Products) != 1 {
		return nil
	}
	return r.Products[0].Def
}

// Directive declares Replace a duplicate of With.
type Directive struct {
	Replace string `yaml:"replace" json:"replace"`
	With    string `yaml:"with" json:"with"`
}

// ReplacerDef is one authored source of directives.
type ReplacerDef struct {
	Name      string      `yaml:"name" json:"name"`
	Replacers []Directive `yaml:"replacers" json:"replacers"`
}

// DirectiveSource enumerates replacer definitions in authored order.
type DirectiveSource interface {
	ReplacerDefs() []ReplacerDef
}

// Directives is a DirectiveSource over a fixed slice.
type Directives []ReplacerDef

// ReplacerDefs implements DirectiveSource.
func (d Directives) ReplacerDefs() []ReplacerDef {
	return d
}
