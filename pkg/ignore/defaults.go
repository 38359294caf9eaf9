package ignore

// DefaultPatterns are always excluded from a mirror, mirroring what npm
// never publishes.
var DefaultPatterns = []string{
	".git",
	"CVS",
	".svn",
	".hg",
	".lock-wscript",
	".wafpickle-N",
	".*.swp",
	".DS_Store",
	"._*",
	"npm-debug.log",
	".npmrc",
	"node_modules",
	"config.gypi",
	"*.orig",
	"package-lock.json",
}

// Ignore file names, in precedence order
const (
	NpmIgnoreFile = ".npmignore"
	GitIgnoreFile = ".gitignore"
)
