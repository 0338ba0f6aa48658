package cli

var (
	RenderDepartmentReport = renderDepartmentReport
	PrintToken             = printToken
	GetIndexConfig         = getIndexConfig
)
