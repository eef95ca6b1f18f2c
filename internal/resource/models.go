package resource

import "strings"

// Document is a schema-less portfolio record. The store identifier lives under IDField.
// Fields are never validated; narrowing the schema later only touches this package.
type Document map[string]interface{}

const (
	// IDField is the key the store identifier is exposed under on the wire.
	IDField = "_id"
	// CreatedAtField holds the server-assigned insertion time on timestamped kinds.
	CreatedAtField = "createdAt"
)

// WithoutID returns a shallow copy of d with any caller-supplied identifier removed.
func (d Document) WithoutID() Document {
	out := make(Document, len(d))
	for k, v := range d {
		if k == IDField || k == "id" {
			continue
		}
		out[k] = v
	}
	return out
}

// Kind describes one resource collection and its HTTP surface.
type Kind struct {
	// Key is the lower-case resource name used in metrics and logs.
	Key string
	// Singular and Plural are the nouns used in response messages.
	Singular string
	Plural   string
	// CreateNoun is the noun used by the create messages.
	CreateNoun string

	Collection string
	ListPath   string
	CreatePath string
	ItemPath   string

	// Timestamped kinds get CreatedAtField on insert and list newest-first.
	Timestamped bool
}

// SortField returns the field List orders by (descending), or "" for store order.
func (k Kind) SortField() string {
	if k.Timestamped {
		return CreatedAtField
	}
	return ""
}

func (k Kind) ListMessage() string {
	return "All " + k.Plural + " retrieved successfully"
}

func (k Kind) CreatedMessage() string { return "Successfully added your " + k.CreateNoun }

func (k Kind) NotCreatedMessage() string { return "Couldn't add the " + k.CreateNoun }

func (k Kind) UpdatedMessage() string { return k.Singular + " updated successfully" }

func (k Kind) NotUpdatedMessage() string {
	return k.Singular + " not found or couldn't be updated"
}

func (k Kind) DeletedMessage() string { return k.Singular + " deleted successfully." }

func (k Kind) NotDeletedMessage() string { return "Couldn't delete the " + k.Singular }

var (
	Project = Kind{
		Key:         "project",
		Singular:    "Project",
		Plural:      "Projects",
		CreateNoun:  "Project",
		Collection:  "projects",
		ListPath:    "/all-projects",
		CreatePath:  "/create-project",
		ItemPath:    "/projects/:id",
		Timestamped: true,
	}
	Blog = Kind{
		Key:        "blog",
		Singular:   "Blog",
		Plural:     "Blogs",
		CreateNoun: "Blog",
		Collection: "blogs",
		ListPath:   "/all-blogs",
		CreatePath: "/create-blog",
		ItemPath:   "/blogs/:id",
	}
	Skill = Kind{
		Key:        "skill",
		Singular:   "Skill",
		Plural:     "skills",
		CreateNoun: "skill",
		Collection: "skills",
		ListPath:   "/skills",
		CreatePath: "/create-skill",
		ItemPath:   "/skills/:id",
	}
)

// Kinds lists every resource served by the API, in registration order.
func Kinds() []Kind {
	return []Kind{Project, Blog, Skill}
}

// ByKey looks up a kind by its Key (case-insensitive).
func ByKey(key string) (Kind, bool) {
	for _, k := range Kinds() {
		if strings.EqualFold(k.Key, key) {
			return k, true
		}
	}
	return Kind{}, false
}
