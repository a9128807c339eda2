package resourceuri

import (
	"strings"

	"github.com/google/uuid"
)

// CompareLevel selects the components taking part in a comparison. Levels can be OR-ed.
type CompareLevel int

const (
	CompareLevelSubscription CompareLevel = 1 << iota
	CompareLevelResourceGroup
	CompareLevelProvider
	CompareLevelType
	CompareLevelResourceName
)

const (
	CompareLevelNone CompareLevel = 0
	CompareLevelAll               = CompareLevelSubscription | CompareLevelResourceGroup | CompareLevelProvider | CompareLevelType | CompareLevelResourceName
)

var compareLevels = []CompareLevel{
	CompareLevelSubscription,
	CompareLevelResourceGroup,
	CompareLevelProvider,
	CompareLevelType,
	CompareLevelResourceName,
}

// Has reports whether every level in other is set.
func (level CompareLevel) Has(other CompareLevel) bool {
	return level&other == other
}

func (uri *ResourceUri) component(level CompareLevel) string {
	switch level {
	case CompareLevelSubscription:
		if uri.Subscription == uuid.Nil {
			return ""
		}
		return uri.Subscription.String()
	case CompareLevelResourceGroup:
		return uri.ResourceGroupName
	case CompareLevelProvider:
		return uri.ProviderName
	case CompareLevelType:
		return uri.Type
	case CompareLevelResourceName:
		return uri.ResourceName
	}
	return ""
}

// Is compares a single component with value, ignoring case.
// level must name exactly one component. A nil uri has only empty components.
func (uri *ResourceUri) Is(level CompareLevel, value string) bool {
	if uri == nil {
		uri = &ResourceUri{}
	}
	for _, l := range compareLevels {
		if l == level {
			return strings.EqualFold(uri.component(level), value)
		}
	}
	return false
}

// Compare reports whether the selected components of uri match other.
// Components that are empty on uri are skipped, so a partially populated uri
// acts as a pattern over other. Either side may be nil and then reads as empty.
func (uri *ResourceUri) Compare(other *ResourceUri, levels CompareLevel) bool {
	if uri == nil {
		uri = &ResourceUri{}
	}
	if other == nil {
		other = &ResourceUri{}
	}

	for _, level := range compareLevels {
		if !levels.Has(level) {
			continue
		}
		local := uri.component(level)
		if local == "" {
			continue
		}
		if !strings.EqualFold(local, other.component(level)) {
			return false
		}
	}
	return true
}
