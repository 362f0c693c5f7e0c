package solver

import "github.com/go-spine/spinecore/definition"

// resolveAttachment looks up the attachment currently selected on slotIndex,
// checking the instance's active skin first and falling back to the
// default skin (spec.md §4.4 "resolved via the current skin and slot
// attachment id"), matching the lookup order every Spine runtime uses so an
// active non-default skin only needs to override the attachments it
// customizes.
func resolveAttachment(def *definition.Definition, activeSkin int, slotIndex int, name string) (definition.Attachment, bool) {
	if name == "" {
		return nil, false
	}
	if activeSkin >= 0 && activeSkin < len(def.Skins) {
		if a, ok := def.Skins[activeSkin].Attachment(slotIndex, name); ok {
			return a, true
		}
	}
	if len(def.Skins) == 0 {
		return nil, false
	}
	return def.Skins[0].Attachment(slotIndex, name)
}
