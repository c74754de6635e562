package config

import "time"

const (
	DefaultBaseURL    = "https://api.vimeo.com"
	DefaultAccept     = "application/vnd.vimeo.*+json;version=3.4"
	DefaultInitialURI = "/me/videos?include_subfolders=true&fields=uri,name,embed.html,parent_folder.name,parent_folder.uri&sort=alphabetical&per_page=100"
)

func (m *Manager) GetDefault() *Config {
	return &Config{
		App: App{
			LogLevel: "info",
			LogFile:  "logs/vimeometa.log",
		},
		API: API{
			BaseURL:     DefaultBaseURL,
			Accept:      DefaultAccept,
			InitialURI:  DefaultInitialURI,
			TimeoutSecs: 30,
		},
		Limiter: Limiter{
			Requests: 0,
			Per:      0 * time.Second,
		},
		Retry: Retry{
			MaxRetries:     0,
			MaxBackoffSecs: 30,
		},
		Filter: Filter{
			FolderColumn:          "parent_folder_name",
			FolderNames:           []string{"brunhuber", "ward", "lemon", "blackwell", "whitaker"},
			DropColumnsContaining: "parent",
			DropColumns:           []string{},
			FlattenSeparator:      "_",
		},
		Output: Output{
			Dir:      "output",
			Filename: "VimeoIDs.csv",
			Rename: map[string]string{
				"uri":        "ID",
				"embed_html": "embed",
			},
		},
	}
}
