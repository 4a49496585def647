package knowledge

import (
	"fmt"
	"strings"
)

func render(def Definition) string {
	var b strings.Builder

	title := def.Title
	if title == "" {
		title = def.Name
	}
	if def.Database != "" {
		fmt.Fprintf(&b, "%s (%s):\n", title, def.Database)
	} else {
		fmt.Fprintf(&b, "%s:\n", title)
	}

	b.WriteString("\n## Tables\n")
	for i, table := range def.Tables {
		fmt.Fprintf(&b, "\n### %d. %s\n", i+1, table.Name)
		if table.Purpose != "" {
			fmt.Fprintf(&b, "Purpose: %s\n", table.Purpose)
		}
		for _, col := range table.Columns {
			line := fmt.Sprintf("- %s", col.Name)
			if col.Role != "" {
				line += fmt.Sprintf(" [%s]", col.Role)
			}
			if col.Description != "" {
				line += ": " + col.Description
			}
			b.WriteString(line + "\n")
		}
	}

	if len(def.Relationships) > 0 {
		b.WriteString("\n## Relationships\n")
		for _, rel := range def.Relationships {
			fmt.Fprintf(&b, "- %s.%s -> %s.%s\n", rel.FromTable, rel.FromColumn, rel.ToTable, rel.ToColumn)
		}
	}

	for _, ct := range def.CodeTables {
		fmt.Fprintf(&b, "\n## %s", ct.Name)
		if ct.Column != "" {
			fmt.Fprintf(&b, " (%s)", ct.Column)
		}
		b.WriteString("\n")
		if ct.Description != "" {
			b.WriteString(ct.Description + "\n")
		}
		for _, code := range ct.Codes {
			fmt.Fprintf(&b, "- %s: %s\n", code.Code, code.Label)
		}
		for _, group := range ct.Groups {
			fmt.Fprintf(&b, "- %s", strings.ToUpper(group.Name))
			if group.Description != "" {
				fmt.Fprintf(&b, " (%s)", group.Description)
			}
			fmt.Fprintf(&b, ": %s\n", strings.Join(group.Codes, ", "))
		}
	}

	if len(def.QueryPatterns) > 0 {
		b.WriteString("\n## Common Query Patterns\n")
		for i, pattern := range def.QueryPatterns {
			fmt.Fprintf(&b, "%d. %s\n", i+1, pattern)
		}
	}

	if len(def.Notes) > 0 {
		b.WriteString("\n## Important Notes\n")
		for _, note := range def.Notes {
			fmt.Fprintf(&b, "- %s\n", note)
		}
	}

	for _, tmpl := range def.Templates {
		fmt.Fprintf(&b, "\n## Custom Report: %s\n", tmpl.Name)
		if len(tmpl.Triggers) > 0 {
			quoted := make([]string, 0, len(tmpl.Triggers))
			for _, trigger := range tmpl.Triggers {
				quoted = append(quoted, fmt.Sprintf("%q", trigger))
			}
			fmt.Fprintf(&b, "Trigger Phrase: %s\n", strings.Join(quoted, " or "))
		}
		fmt.Fprintf(&b, "Substitution point: %s\n", tmpl.Placeholder)
		if tmpl.Description != "" {
			b.WriteString(tmpl.Description + "\n")
		}
		b.WriteString("```sql\n")
		b.WriteString(strings.TrimSpace(tmpl.SQL))
		b.WriteString("\n```\n")
	}

	return b.String()
}
