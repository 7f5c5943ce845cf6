package cfg

type Cfg struct {
	// HTTP server configuration
	Port         string
	APIAccessKey string

	// GitHub search configuration
	GithubAPIURL string
	GithubToken  string
	MinStars     int

	// Cache configuration
	CachePath      string
	CategoriesFile string

	// Background refresh configuration
	WorkerCount       int
	SchedulerInterval int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
