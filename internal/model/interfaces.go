package model

// Classifier turns the text of one file into object events
type Classifier interface {
	// Classify scans text line by line and returns the detected events in line order
	Classify(text, fileName string) []ObjectEvent
}

// Reporter defines how to output results
type Reporter interface {
	Report(entries []RegistryEntry) error
}
