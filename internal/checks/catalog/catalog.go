// Package catalog registers the fixed checklist run against each artifact.
package catalog

import "shipcheck/internal/artifact"

func manifestFormats() []artifact.Format {
	return []artifact.Format{artifact.FormatRPM, artifact.FormatDEB, artifact.FormatAppImage}
}

func signableFormats() []artifact.Format {
	return []artifact.Format{artifact.FormatRPM, artifact.FormatDEB, artifact.FormatMSI, artifact.FormatNSISExe}
}

func dynamicFormats() []artifact.Format {
	return []artifact.Format{artifact.FormatRPM, artifact.FormatDEB}
}
