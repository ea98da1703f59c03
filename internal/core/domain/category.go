package domain

// SectionCategory is the semantic category of a rulebook section.
type SectionCategory string

// Available section categories.
const (
	CategoryPresentation  SectionCategory = "presentation"
	CategoryObjective     SectionCategory = "objective"
	CategoryComponents    SectionCategory = "components"
	CategorySetup         SectionCategory = "setup"
	CategoryTurnStructure SectionCategory = "turn_structure"
	CategoryEventCards    SectionCategory = "event_cards"
	CategorySpecialRules  SectionCategory = "special_rules"
	CategoryVictory       SectionCategory = "victory"
	CategoryVariant       SectionCategory = "variant"
	CategoryTips          SectionCategory = "tips"
	CategoryOther         SectionCategory = "other"
)

// IsValid returns true if the category is recognised.
func (c SectionCategory) IsValid() bool {
	switch c {
	case CategoryPresentation, CategoryObjective, CategoryComponents,
		CategorySetup, CategoryTurnStructure, CategoryEventCards,
		CategorySpecialRules, CategoryVictory, CategoryVariant,
		CategoryTips, CategoryOther:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (c SectionCategory) String() string {
	return string(c)
}
