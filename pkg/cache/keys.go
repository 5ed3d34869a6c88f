package cache

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey identifies a settled layout of a dataset.
	LayoutKey(datasetHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies one exported format of a settled layout.
	ArtifactKey(layoutKey string, format string) string
}

// LayoutKeyOpts are the options that change where nodes settle or how the
// scene is styled.
type LayoutKeyOpts struct {
	Width             float64 `json:"width"`
	Height            float64 `json:"height"`
	Seed              uint64  `json:"seed"`
	MaxFrames         int     `json:"max_frames"`
	NodeSize          string  `json:"node_size"`
	ShowLabels        bool    `json:"show_labels"`
	ShowRelationships bool    `json:"show_relationships"`
}

// DefaultKeyer hashes every key component.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(datasetHash string, opts LayoutKeyOpts) string {
	return hashKey(KindLayout, datasetHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutKey string, format string) string {
	return hashKey(KindArtifact, layoutKey, format)
}
