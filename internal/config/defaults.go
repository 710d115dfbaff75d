package config

const (
	defaultConfigPath         = "~/.config/playmate/config.toml"
	defaultLLMBaseURL         = "https://api.openai.com/v1"
	defaultLLMModel           = "gpt-4.1-mini"
	defaultLLMTimeoutSeconds  = 15
	defaultRAWGBaseURL        = "https://api.rawg.io/api"
	defaultRAWGTimeoutSeconds = 15
	defaultRAWGRequestsPerSec = 4
	defaultTMDBBaseURL        = "https://api.themoviedb.org/3"
	defaultTMDBImageBaseURL   = "https://image.tmdb.org/t/p/w500"
	defaultTMDBLanguage       = "ko-KR"
	defaultTMDBRegion         = "KR"
	defaultTMDBTimeoutSeconds = 15
	defaultCandidateCount     = 18
	defaultFactLimit          = 16
	defaultWorkers            = 1
	defaultCacheBackend       = "sqlite"
	defaultCachePath          = "~/.cache/playmate/catalog.db"
	defaultCacheTTLHours      = 24
	defaultServerBind         = "127.0.0.1:8787"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// SupportedModels lists the text-generation models accepted by llm.model.
var SupportedModels = []string{"gpt-4.1-mini", "gpt-4.1", "gpt-5", "gpt-5.2"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		RAWG: RAWG{
			BaseURL:           defaultRAWGBaseURL,
			TimeoutSeconds:    defaultRAWGTimeoutSeconds,
			RequestsPerSecond: defaultRAWGRequestsPerSec,
		},
		TMDB: TMDB{
			BaseURL:        defaultTMDBBaseURL,
			ImageBaseURL:   defaultTMDBImageBaseURL,
			Language:       defaultTMDBLanguage,
			Region:         defaultTMDBRegion,
			TimeoutSeconds: defaultTMDBTimeoutSeconds,
		},
		Recommend: Recommend{
			CandidateCount: defaultCandidateCount,
			FactLimit:      defaultFactLimit,
			Workers:        defaultWorkers,
		},
		Cache: Cache{
			Backend:  defaultCacheBackend,
			Path:     defaultCachePath,
			TTLHours: defaultCacheTTLHours,
		},
		Server: Server{
			Bind: defaultServerBind,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
