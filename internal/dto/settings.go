package dto

// SettingItem is a single platform setting in responses.
type SettingItem struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// UpdateSettingRequest changes the value of one setting.
type UpdateSettingRequest struct {
	Value string `json:"value" validate:"required"`
}

// BulkUpdateSettingsItem is one entry of a bulk settings update.
type BulkUpdateSettingsItem struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value" validate:"required"`
}

// BulkUpdateSettingsRequest applies several settings at once.
type BulkUpdateSettingsRequest struct {
	Items []BulkUpdateSettingsItem `json:"items" validate:"required,min=1,dive"`
}
