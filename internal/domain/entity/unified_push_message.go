package entity

// UnifiedPushMessage is the caller's push request (§3). JSON tags match
// the wire format JobSplitter deserializes and VariantJob/BatchJob carry
// around as SerializedMessage.
type UnifiedPushMessage struct {
	Alert            string         `json:"alert"`
	Title            string         `json:"title,omitempty"`
	Badge            *int           `json:"badge,omitempty"`
	Sound            string         `json:"sound,omitempty"`
	ContentAvailable bool           `json:"contentAvailable,omitempty"`
	UserData         map[string]any `json:"userData,omitempty"`
	Categories       []string       `json:"categories,omitempty"`
	Aliases          []string       `json:"aliases,omitempty"`
	DeviceTypes      []string       `json:"deviceTypes,omitempty"`
	Variants         []string       `json:"variants,omitempty"`
	TimeToLive       int            `json:"timeToLive,omitempty"`
}

// InstallationFilter is the subset of UnifiedPushMessage that narrows
// which installations TokenLoader returns for a variant.
type InstallationFilter struct {
	Categories  []string
	Aliases     []string
	DeviceTypes []string
}

// Filter projects the message's targeting fields into an InstallationFilter.
func (m UnifiedPushMessage) Filter() InstallationFilter {
	return InstallationFilter{
		Categories:  m.Categories,
		Aliases:     m.Aliases,
		DeviceTypes: m.DeviceTypes,
	}
}
