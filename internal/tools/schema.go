package tools

func schemaNone() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{}, "additionalProperties": false}
}

func schemaSearchNotes() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query":  map[string]any{"type": "string"},
			"folder": map[string]any{"type": "string"},
		},
		"required":             []string{"query"},
		"additionalProperties": false,
	}
}

type searchNotesArgs struct {
	Query  string `json:"query"`
	Folder string `json:"folder,omitempty"`
}

func (a searchNotesArgs) Validate() []string {
	if a.Query == "" {
		return []string{"query"}
	}
	return nil
}

func schemaReadNote() map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           map[string]any{"path": map[string]any{"type": "string"}},
		"required":             []string{"path"},
		"additionalProperties": false,
	}
}

type readNoteArgs struct {
	Path string `json:"path"`
}

func (a readNoteArgs) Validate() []string {
	if a.Path == "" {
		return []string{"path"}
	}
	return nil
}

func schemaCreateNote() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path":           map[string]any{"type": "string"},
			"content":        map[string]any{"type": "string"},
			"use_template":   map[string]any{"type": "boolean"},
			"create_folders": map[string]any{"type": "boolean"},
		},
		"required":             []string{"path", "content"},
		"additionalProperties": false,
	}
}

type createNoteArgs struct {
	Path          string `json:"path"`
	Content       string `json:"content"`
	UseTemplate   *bool  `json:"use_template,omitempty"`
	CreateFolders bool   `json:"create_folders,omitempty"`
}

func (a createNoteArgs) Validate() []string {
	if a.Path == "" {
		return []string{"path"}
	}
	return nil
}

func schemaUpdateNote() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path":            map[string]any{"type": "string"},
			"content":         map[string]any{"type": "string"},
			"preserve_format": map[string]any{"type": "boolean"},
		},
		"required":             []string{"path", "content"},
		"additionalProperties": false,
	}
}

type updateNoteArgs struct {
	Path           string `json:"path"`
	Content        string `json:"content"`
	PreserveFormat *bool  `json:"preserve_format,omitempty"`
}

func (a updateNoteArgs) Validate() []string {
	if a.Path == "" {
		return []string{"path"}
	}
	return nil
}

func schemaAppendNote() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path":      map[string]any{"type": "string"},
			"content":   map[string]any{"type": "string"},
			"separator": map[string]any{"type": "string"},
		},
		"required":             []string{"path", "content"},
		"additionalProperties": false,
	}
}

type appendNoteArgs struct {
	Path      string `json:"path"`
	Content   string `json:"content"`
	Separator string `json:"separator,omitempty"`
}

func (a appendNoteArgs) Validate() []string {
	if a.Path == "" {
		return []string{"path"}
	}
	return nil
}

func schemaDeleteNote() map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           map[string]any{"path": map[string]any{"type": "string"}},
		"required":             []string{"path"},
		"additionalProperties": false,
	}
}

type deleteNoteArgs struct {
	Path string `json:"path"`
}

func (a deleteNoteArgs) Validate() []string {
	if a.Path == "" {
		return []string{"path"}
	}
	return nil
}

func schemaListNotes() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"folder":          map[string]any{"type": "string"},
			"include_headers": map[string]any{"type": "boolean"},
		},
		"additionalProperties": false,
	}
}

type listNotesArgs struct {
	Folder         string `json:"folder,omitempty"`
	IncludeHeaders bool   `json:"include_headers,omitempty"`
}

func schemaGetVaultStructure() map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           map[string]any{"use_cache": map[string]any{"type": "boolean"}},
		"additionalProperties": false,
	}
}

type getVaultStructureArgs struct {
	UseCache *bool `json:"use_cache,omitempty"`
}

func schemaExecuteCommand() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"command":    map[string]any{"type": "string"},
			"parameters": map[string]any{"type": "object"},
		},
		"required":             []string{"command"},
		"additionalProperties": false,
	}
}

type executeCommandArgs struct {
	Command    string         `json:"command"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

func (a executeCommandArgs) Validate() []string {
	if a.Command == "" {
		return []string{"command"}
	}
	return nil
}

func schemaKeywordSearch() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"keyword":        map[string]any{"type": "string"},
			"folder":         map[string]any{"type": "string"},
			"case_sensitive": map[string]any{"type": "boolean"},
			"limit":          map[string]any{"type": "integer"},
		},
		"required":             []string{"keyword"},
		"additionalProperties": false,
	}
}

type keywordSearchArgs struct {
	Keyword       string `json:"keyword"`
	Folder        string `json:"folder,omitempty"`
	CaseSensitive bool   `json:"case_sensitive,omitempty"`
	Limit         *int   `json:"limit,omitempty"`
}

func (a keywordSearchArgs) Validate() []string {
	if a.Keyword == "" {
		return []string{"keyword"}
	}
	return nil
}

func schemaCheckNoteExists() map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           map[string]any{"path": map[string]any{"type": "string"}},
		"required":             []string{"path"},
		"additionalProperties": false,
	}
}

type checkNoteExistsArgs struct {
	Path string `json:"path"`
}

func (a checkNoteExistsArgs) Validate() []string {
	if a.Path == "" {
		return []string{"path"}
	}
	return nil
}

func schemaListDailyNotes() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"start_date": map[string]any{"type": "string"},
			"end_date":   map[string]any{"type": "string"},
		},
		"required":             []string{"start_date", "end_date"},
		"additionalProperties": false,
	}
}

type listDailyNotesArgs struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (a listDailyNotesArgs) Validate() []string {
	var bad []string
	if a.StartDate == "" {
		bad = append(bad, "start_date")
	}
	if a.EndDate == "" {
		bad = append(bad, "end_date")
	}
	return bad
}
