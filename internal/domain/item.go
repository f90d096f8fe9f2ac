package domain

import "fmt"

// ItemType identifies which content table an item reference points at.
type ItemType string

const (
	ItemTypeRadical   ItemType = "radical"
	ItemTypeCharacter ItemType = "character"
)

// IsValid reports whether t is a defined item type.
func (t ItemType) IsValid() bool {
	return t == ItemTypeRadical || t == ItemTypeCharacter
}

// ParseItemType converts a string into an ItemType, rejecting unknown values.
func ParseItemType(s string) (ItemType, error) {
	t := ItemType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid item type: %q", s)
	}
	return t, nil
}

// CardType identifies which direction of recall a card tests.
// The recognition and recall cards of one item are independent
// scheduling streams.
type CardType string

const (
	CardTypeRecognition CardType = "recognition" // Shown the character, recall the meaning.
	CardTypeRecall      CardType = "recall"      // Shown the meaning, recall the character.
)

// IsValid reports whether t is a defined card type.
func (t CardType) IsValid() bool {
	return t == CardTypeRecognition || t == CardTypeRecall
}

// CardTypes lists all card types in the order cards are created for an item.
func CardTypes() []CardType {
	return []CardType{CardTypeRecognition, CardTypeRecall}
}
