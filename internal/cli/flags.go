package cli

// Flags holds all command-line flags
type Flags struct {
	// Global flags
	CfgFile  string
	Verbose  bool
	Provider string

	// Translation flags
	From  string
	To    string
	Model string

	// File output flags
	Output        string
	HTML          bool
	StripMarkdown bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		From: "en",
	}
}
