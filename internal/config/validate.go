package config

func ValidateForRun(cfg *Config) error {
	if err := cfg.Redis.Validate(); err != nil {
		return err
	}
	return cfg.Adherence.Validate()
}

// Validate checks the task queue config for the active platform. The
// local tasks URL may be empty, in which case task registration is
// disabled and reminders are computed but not delivered.
func (c *TaskQueueConfig) Validate() error {
	if c.GCloudProjectID != "" || c.GCloudLocationID != "" || c.GCloudQueueID != "" {
		if c.GCloudProjectID == "" || c.GCloudLocationID == "" || c.GCloudQueueID == "" || c.GCloudTargetURL == "" {
			return ErrTaskQueueTargetMissing
		}
	}
	return nil
}
