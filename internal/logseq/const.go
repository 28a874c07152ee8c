package logseq

// Source text markers shared by the line classifier and block builder.
const (
	markBlockOpener       = "-"
	markBlockContinuation = " "
	markBlockIndent       = '\t'
	markCodeFence         = "```"
	markDirectiveOpener   = "#+BEGIN"
	markDirectiveCloser   = "#+END"
	markDirectiveSplit    = "_"
	markProperty          = ":: "
)

// PathAssets is the relative prefix Logseq uses for asset links.
const PathAssets = "../assets"
