package switcher

import "github.com/dasdy/softkeys/model"

// ResolveRowMode picks the row variant for a field. Variants switched off in
// toggles resolve to normal.
func ResolveRowMode(info *EditorInfo, toggles RowModeToggles) model.RowMode {
	if info == nil {
		return model.RowModeNormal
	}

	switch info.Variation {
	case VariationURI:
		if toggles.URL {
			return model.RowModeURL
		}
	case VariationEmail:
		if toggles.Email {
			return model.RowModeEmail
		}
	case VariationPassword:
		if toggles.Password {
			return model.RowModePassword
		}
	case VariationShortMessage:
		if toggles.IM {
			return model.RowModeIM
		}
	case VariationNormal:
	}

	return model.RowModeNormal
}
