package knowledge

// Config describes the document store.
type Config struct {
	Collection   string `json:"collection" mapstructure:"collection"`
	Bucket       string `json:"bucket" mapstructure:"bucket"`
	Region       string `json:"region" mapstructure:"region"`
	Endpoint     string `json:"endpoint,omitempty" mapstructure:"endpoint"`
	AccessKey    string `json:"access_key,omitempty" mapstructure:"access_key"`
	SecretKey    string `json:"secret_key,omitempty" mapstructure:"secret_key"`
	UsePathStyle bool   `json:"use_path_style" mapstructure:"use_path_style"`
}

// DefaultConfig targets a local MinIO-compatible endpoint.
func DefaultConfig() Config {
	return Config{
		Collection:   DefaultCollectionID,
		Bucket:       "drafter-knowledge",
		Region:       "us-east-1",
		UsePathStyle: true,
	}
}

// Merge applies non-zero values from source into c. UsePathStyle is only ever
// switched on by a source.
func (c *Config) Merge(source *Config) {
	if source.Collection != "" {
		c.Collection = source.Collection
	}
	if source.Bucket != "" {
		c.Bucket = source.Bucket
	}
	if source.Region != "" {
		c.Region = source.Region
	}
	if source.Endpoint != "" {
		c.Endpoint = source.Endpoint
	}
	if source.AccessKey != "" {
		c.AccessKey = source.AccessKey
	}
	if source.SecretKey != "" {
		c.SecretKey = source.SecretKey
	}
	if source.UsePathStyle {
		c.UsePathStyle = true
	}
}
