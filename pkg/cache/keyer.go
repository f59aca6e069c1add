package cache

// ArtifactKeyOpts are the render settings that change an artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Scale  float64 `json:"scale,omitempty"`
}

// SeriesKeyOpts are the reduction settings that change a time series.
type SeriesKeyOpts struct {
	Region  string  `json:"region"`
	Reducer string  `json:"reducer"`
	Scale   float64 `json:"scale"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey identifies a rendered output of a scene.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
	// SeriesKey identifies reduced series of a collection.
	SeriesKey(collectionHash string, opts SeriesKeyOpts) string
}

// DefaultKeyer hashes every option into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}

func (DefaultKeyer) SeriesKey(collectionHash string, opts SeriesKeyOpts) string {
	return hashKey("series", collectionHash, opts)
}
