package mcpserver

// Tool descriptions with interpretation guidance for LLMs.
// Each description explains what the tool does, when to use it,
// how to interpret results, and key fields.

func describeAnalyze() string {
	return `Analyzes one interaction document for accessibility issues in its event handler graph.

USE WHEN:
- Reviewing a component's interaction model before merging
- Checking whether a click handler is reachable from the keyboard
- Auditing ARIA state updates, focus management, and timing behavior
- Re-checking a file after an edit without re-scanning the project

INTERPRETING RESULTS:
- Severity: error > warning > info; errors block WCAG conformance
- Confidence: HIGH findings are safe to act on; MEDIUM may miss cross-file context; LOW is speculative
- Ceiling: HIGH means the cross-file reference closure was fully resolved; MEDIUM means some referenced files were missing, failed to parse, or the file ceiling was hit
- Mode "file" analyzes the document alone; "smart" follows its references; "project" behaves like smart with project-wide settings
- Trimmed > 0 means lower-severity issues were dropped to fit the token budget; the summary still counts them

METRICS RETURNED:
- Issues: type, severity, message, WCAG criteria, confidence, anchor node, location
- Summary: totals by severity, confidence, and type, plus per-file density
- Ceiling: the confidence cap applied to every finding`
}

func describeProject() string {
	return `Analyzes every interaction document under a directory against one merged cross-file context.

USE WHEN:
- Auditing a whole codebase or package for interaction accessibility
- Producing a prioritized issue list across many components
- Measuring issue density before and after a remediation pass

INTERPRETING RESULTS:
- Issues are sorted most severe first, then by location, so the head of the list is the work queue
- Files counts every scanned document, including ones that failed to parse
- parse-failed issues mean a document could not be decoded; fix those first, they hide real findings
- mean_per_file and stddev_per_file in the summary show how issues cluster; a high stddev points at a few problem files
- Trimmed > 0 means lower-severity issues were dropped to fit the token budget; the summary still counts them

METRICS RETURNED:
- Issues: type, severity, message, WCAG criteria, confidence, location per finding
- Summary: totals by severity, confidence, and type, plus per-file density
- Files: number of documents scanned`
}

func describeFix() string {
	return `Applies automated fixes to a document's interaction issues and re-analyzes the result.

USE WHEN:
- Remediating mouse-only handlers, positive tabindex, or stale ARIA state mechanically
- Generating a corrected interaction tree or code snippet to apply to the source
- Verifying that a fix pass actually clears the findings it targets

INTERPRETING RESULTS:
- Applied lists each fix with the fixer that produced it and the anchor node it edited
- Failed lists issues no fixer could claim or where the edit failed; those need manual remediation
- Remaining is a fresh analysis of the fixed tree; a claimed fix that still appears there did not take
- Output is the fixed tree rendered in the selected language ("ir" for the interchange format, "javascript" for a snippet); empty when no generator covers the language
- skip_optimize keeps superseded nodes in the tree, useful for diffing what the fixers changed

METRICS RETURNED:
- Applied: fixer id, issue type, anchor node per fix
- Remaining: full analysis result for the fixed tree
- Output: generated source for the fixed tree`
}

func describeExplain() string {
	return `Explains the issue types the analyzers emit, with WCAG mapping and remediation guidance.

USE WHEN:
- Deciding how to remediate a finding from analyze_interactions or analyze_project
- Checking which WCAG success criteria a finding maps to
- Checking whether fix_issues can handle an issue type automatically

INTERPRETING RESULTS:
- One entry per issue type, listing the analyzer that emits it
- WCAG lists the success criteria the type maps to, e.g. 2.1.1 for keyboard access
- Fixable true means fix_issues has an automated fix for the type
- Guidance is a short remediation direction, not a full recipe
- Pass type to get a single entry; omit it to list every known type

METRICS RETURNED:
- Type, emitting analyzer, WCAG criteria, fixable flag, guidance text per issue type`
}
