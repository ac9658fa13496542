package config

// ClassifierConfig represents the configuration of the Naive Bayes classifier
type ClassifierConfig struct {
	SmoothingK     float64
	MinTokenLength int
	DatasetPath    string
	DatasetPattern string
	AutoTrain      bool
	TrainFraction  float64
}

// StorageConfig represents where trained models are persisted
type StorageConfig struct {
	Type           string
	FilePath       string
	ModelName      string
	SQLitePath     string
	MySQLDSN       string
	RedisURL       string
	RedisKeyPrefix string
	SaveOnTrain    bool
}

// FeedbackConfig represents where reported messages are kept
type FeedbackConfig struct {
	Type           string
	SQLitePath     string
	MySQLDSN       string
	RedisURL       string
	RedisKeyPrefix string
}

// SpamConfig represents the verdict settings
type SpamConfig struct {
	Threshold          float64
	WhitelistedDomains []string
}

// ServerConfig represents the mail filter front end
type ServerConfig struct {
	FilterType    string
	ListenAddress string
	BlockSpam     bool
	SpamHeader    string
	ScoreHeader   string
	ReasonHeader  string
	SubjectPrefix string
	ModifySubject bool
	RelayEnabled  bool
	RelayAddress  string
	RelayPort     int
	MaxBodySize   int
}

// GetClassifier returns the classifier configuration
func (c *Config) GetClassifier() ClassifierConfig {
	return ClassifierConfig{
		SmoothingK:     c.GetFloat64("classifier.smoothing_k"),
		MinTokenLength: c.GetInt("classifier.min_token_length"),
		DatasetPath:    c.GetString("classifier.dataset_path"),
		DatasetPattern: c.GetString("classifier.dataset_pattern"),
		AutoTrain:      c.GetBool("classifier.auto_train"),
		TrainFraction:  c.GetFloat64("classifier.train_fraction"),
	}
}

// GetStorage returns the model storage configuration
func (c *Config) GetStorage() StorageConfig {
	return StorageConfig{
		Type:           c.GetString("storage.type"),
		FilePath:       c.GetString("storage.file_path"),
		ModelName:      c.GetString("storage.model_name"),
		SQLitePath:     c.GetString("storage.sqlite_path"),
		MySQLDSN:       c.GetString("storage.mysql_dsn"),
		RedisURL:       c.GetString("storage.redis_url"),
		RedisKeyPrefix: c.GetString("storage.redis_key_prefix"),
		SaveOnTrain:    c.GetBool("storage.save_on_train"),
	}
}

// GetFeedback returns the feedback configuration
func (c *Config) GetFeedback() FeedbackConfig {
	return FeedbackConfig{
		Type:           c.GetString("feedback.type"),
		SQLitePath:     c.GetString("feedback.sqlite_path"),
		MySQLDSN:       c.GetString("feedback.mysql_dsn"),
		RedisURL:       c.GetString("feedback.redis_url"),
		RedisKeyPrefix: c.GetString("feedback.redis_key_prefix"),
	}
}

// GetSpam returns the verdict configuration
func (c *Config) GetSpam() SpamConfig {
	return SpamConfig{
		Threshold:          c.GetFloat64("spam.threshold"),
		WhitelistedDomains: c.GetStringSlice("spam.whitelisted_domains"),
	}
}

// GetServer returns the mail filter configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		FilterType:    c.GetString("server.filter_type"),
		ListenAddress: c.GetString("server.listen_address"),
		BlockSpam:     c.GetBool("server.block_spam"),
		SpamHeader:    c.GetString("server.headers.spam"),
		ScoreHeader:   c.GetString("server.headers.score"),
		ReasonHeader:  c.GetString("server.headers.reason"),
		SubjectPrefix: c.GetString("server.subject_prefix"),
		ModifySubject: c.GetBool("server.modify_subject"),
		RelayEnabled:  c.GetBool("server.relay.enabled"),
		RelayAddress:  c.GetString("server.relay.address"),
		RelayPort:     c.GetInt("server.relay.port"),
		MaxBodySize:   c.GetInt("server.max_body_size"),
	}
}

// TrainingSchedule returns the cron expression for periodic retraining
func (c *Config) TrainingSchedule() string {
	return c.GetString("training.schedule")
}
