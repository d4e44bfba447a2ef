package content

import "strings"

// BlockType tags the kind of content a Block holds.
type BlockType string

// Block types.
const (
	TypeUnstyled    BlockType = "unstyled"
	TypeHeaderOne   BlockType = "header-one"
	TypeHeaderTwo   BlockType = "header-two"
	TypeHeaderThree BlockType = "header-three"
	TypeBulleted    BlockType = "unordered-list-item"
	TypeNumbered    BlockType = "ordered-list-item"
	TypeChecklist   BlockType = "checklist"
	TypeToggle      BlockType = "toggle"
	TypeTitle       BlockType = "title"
	TypeBlockquote  BlockType = "blockquote"
	TypeCode        BlockType = "code-block"
	TypeBanner      BlockType = "banner"
	TypeAtomic      BlockType = "atomic"
	TypeKanban      BlockType = "kanban"
	TypeListView    BlockType = "list-view"

	TypeEmbedImage      BlockType = "embed-image"
	TypeEmbedFile       BlockType = "embed-file"
	TypeEmbedVideo      BlockType = "embed-video"
	TypeEmbedWhiteboard BlockType = "embed-whiteboard"
	TypeEmbedLink       BlockType = "embed-link"
)

// embedPrefix is shared by every embed block and entity type.
const embedPrefix = "embed-"

// IsEmbed reports whether the type belongs to the embed family.
func (t BlockType) IsEmbed() bool {
	return strings.HasPrefix(string(t), embedPrefix)
}

// String returns the tag.
func (t BlockType) String() string {
	return string(t)
}

// EntityType tags the kind of metadata an Entity holds.
type EntityType string

// Entity types.
const (
	EntityMentionPerson     EntityType = "mention-person"
	EntityMentionDoc        EntityType = "mention-doc"
	EntityMentionWhiteboard EntityType = "mention-whiteboard"
	EntityMentionTask       EntityType = "mention-task"
	EntityMentionDate       EntityType = "mention-date"
	EntityComment           EntityType = "comment"
	EntityLink              EntityType = "link"
	EntityEmbedImage        EntityType = "embed-image"
	EntityEmbedFile         EntityType = "embed-file"
	EntityEmbedVideo        EntityType = "embed-video"
	EntityEmbedWhiteboard   EntityType = "embed-whiteboard"
	EntityEmbedLink         EntityType = "embed-link"
)

// IsMention reports whether the type is one of the mention types.
func (t EntityType) IsMention() bool {
	return strings.HasPrefix(string(t), "mention-")
}

// IsEmbed reports whether the type belongs to the embed family.
func (t EntityType) IsEmbed() bool {
	return strings.HasPrefix(string(t), embedPrefix)
}

// Mutability tells block operations how an entity reacts to partial edits.
// The registry does not enforce it.
type Mutability string

// Mutability values.
const (
	// Immutable entities are removed whole when any rune in their range is deleted.
	Immutable Mutability = "IMMUTABLE"

	// Mutable entities shrink and grow with their text.
	Mutable Mutability = "MUTABLE"

	// Segmented entities lose the segment touched by a deletion.
	Segmented Mutability = "SEGMENTED"
)

// Valid reports whether m is a known mutability.
func (m Mutability) Valid() bool {
	switch m {
	case Immutable, Mutable, Segmented:
		return true
	default:
		return false
	}
}

// Inline style names with built-in rendering. Any other name is carried
// through untouched.
const (
	StyleBold          = "BOLD"
	StyleItalic        = "ITALIC"
	StyleUnderline     = "UNDERLINE"
	StyleCode          = "CODE"
	StyleStrikethrough = "STRIKETHROUGH"
)
