package rules

import (
	"sort"
	"strings"

	"pystyle/internal/diag"
	"pystyle/internal/pysrc"
)

// ImportPlan describes the leading import block and its canonical form:
// standard library first, then third-party, then local, each group
// sorted by module path, groups separated by one blank line.
type ImportPlan struct {
	Start   uint32   // первая строка блока (1-based, inclusive)
	End     uint32   // последняя строка блока
	Current []string // строки блока как есть
	Want    []string // строки блока в каноническом порядке
}

// InOrder reports whether the block already has the canonical form.
func (p *ImportPlan) InOrder() bool {
	if len(p.Current) != len(p.Want) {
		return false
	}
	for i := range p.Current {
		if p.Current[i] != p.Want[i] {
			return false
		}
	}
	return true
}

type importGroup uint8

const (
	groupStdlib importGroup = iota
	groupThirdParty
	groupLocal
)

func classifyModule(module string, localPrefixes []string) importGroup {
	if strings.HasPrefix(module, ".") {
		return groupLocal
	}
	root := module
	if i := strings.IndexByte(module, '.'); i >= 0 {
		root = module[:i]
	}
	for _, p := range localPrefixes {
		if root == p {
			return groupLocal
		}
	}
	if stdlibModules[root] {
		return groupStdlib
	}
	return groupThirdParty
}

// PlanImports строит план для ведущего импорт-блока: непрерывная
// последовательность однострочных import/from и пустых строк от первого
// импорта. Комментарий или код обрывают блок; импорты ниже по файлу
// в план не входят. Возвращает nil, если блока нет.
func PlanImports(doc *pysrc.Document, opts Options) *ImportPlan {
	decls := doc.Decls()

	byLine := make(map[uint32]*pysrc.Decl)
	var firstLine uint32
	for i := range decls {
		d := &decls[i]
		if d.Kind != pysrc.DeclImport || d.StartLine != d.EndLine {
			continue
		}
		byLine[d.StartLine] = d
		if firstLine == 0 || d.StartLine < firstLine {
			firstLine = d.StartLine
		}
	}
	if firstLine == 0 {
		return nil
	}

	end := firstLine
	lastImport := firstLine
	for n := firstLine; int(n) <= doc.LineCount(); n++ {
		if _, ok := byLine[n]; ok {
			end = n
			lastImport = n
			continue
		}
		if doc.Flags(n)&pysrc.LineBlank != 0 {
			continue // пустые строки внутри блока допустимы
		}
		break
	}
	end = lastImport

	var imports []*pysrc.Decl
	current := make([]string, 0, end-firstLine+1)
	for n := firstLine; n <= end; n++ {
		current = append(current, doc.Line(n))
		if d, ok := byLine[n]; ok {
			imports = append(imports, d)
		}
	}

	grouped := make([][]*pysrc.Decl, 3)
	for _, d := range imports {
		g := classifyModule(d.Module, opts.LocalPrefixes)
		grouped[g] = append(grouped[g], d)
	}
	for _, g := range grouped {
		sort.SliceStable(g, func(i, j int) bool {
			if g[i].Module != g[j].Module {
				return g[i].Module < g[j].Module
			}
			return doc.Line(g[i].StartLine) < doc.Line(g[j].StartLine)
		})
	}

	var want []string
	for _, g := range grouped {
		if len(g) == 0 {
			continue
		}
		if len(want) > 0 {
			want = append(want, "")
		}
		for _, d := range g {
			want = append(want, doc.Line(d.StartLine))
		}
	}

	return &ImportPlan{
		Start:   firstLine,
		End:     end,
		Current: current,
		Want:    want,
	}
}

// checkImportOrder: I100. Сравнивает блок с каноническим порядком и
// отмечает каждую строку, стоящую не на своём месте.
func checkImportOrder(doc *pysrc.Document, opts Options) []diag.Violation {
	plan := PlanImports(doc, opts)
	if plan == nil || plan.InOrder() {
		return nil
	}

	const msg = "Import statements are not properly grouped and ordered"

	var out []diag.Violation
	n := len(plan.Current)
	if len(plan.Want) < n {
		n = len(plan.Want)
	}
	for i := 0; i < n; i++ {
		if plan.Current[i] != plan.Want[i] {
			out = append(out, diag.New(diag.ImportOrder, plan.Start+uint32(i), 1, msg))
		}
	}
	if len(out) == 0 {
		// Отличаются только длиной (разделители групп).
		out = append(out, diag.New(diag.ImportOrder, plan.Start, 1, msg))
	}
	return out
}
