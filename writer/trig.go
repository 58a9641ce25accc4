// backend/writer/trig.go
package writer

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/gewnthar/vacancies/backend/models"
	"github.com/gewnthar/vacancies/backend/utils"
)

const (
	NamespaceRDF     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NamespaceRDFS    = "http://www.w3.org/2000/01/rdf-schema#"
	NamespaceXSD     = "http://www.w3.org/2001/XMLSchema#"
	NamespaceDCTerms = "http://purl.org/dc/terms/"
	NamespaceDCAT    = "http://www.w3.org/ns/dcat#"
	NamespaceGDP     = "http://gss-data.org.uk/def/gdp#"

	gssData   = "http://gss-data.org.uk/data/"
	gssGraph  = "http://gss-data.org.uk/graph/"
	themeBase = "http://gss-data.org.uk/def/concept/statistics-authority-themes/"
)

var trigPrefixes = []struct{ prefix, ns string }{
	{"rdf", NamespaceRDF},
	{"rdfs", NamespaceRDFS},
	{"xsd", NamespaceXSD},
	{"dcterms", NamespaceDCTerms},
	{"dcat", NamespaceDCAT},
	{"gdp", NamespaceGDP},
}

// DatasetID derives the path segment used in dataset and graph URIs from a landing page URL.
func DatasetID(landingPage string) string {
	u, err := url.Parse(landingPage)
	if err != nil || u.Path == "" {
		return utils.Pathify(landingPage)
	}
	return utils.Pathify(path.Base(strings.TrimSuffix(u.Path, "/")))
}

// WriteTrig writes the dataset description as a single named graph in TriG.
func WriteTrig(filePath string, dataset models.Dataset) error {
	return writeFileAtomic(filePath, func(w io.Writer) error {
		return EncodeTrig(w, dataset)
	})
}

// EncodeTrig serializes dataset to w.
func EncodeTrig(w io.Writer, dataset models.Dataset) error {
	id := DatasetID(dataset.LandingPage)
	family := utils.Pathify(dataset.Family)
	subject := gssData + family + "/" + id
	graph := gssGraph + family + "/" + id + "/metadata"

	bw := bufio.NewWriter(w)
	for _, p := range trigPrefixes {
		fmt.Fprintf(bw, "@prefix %s: <%s> .\n", p.prefix, p.ns)
	}
	fmt.Fprintf(bw, "\n<%s> {\n", graph)
	fmt.Fprintf(bw, "    <%s> a dcat:Dataset", subject)

	statement := func(predicate, object string) {
		fmt.Fprintf(bw, " ;\n        %s %s", predicate, object)
	}
	if dataset.Title != "" {
		statement("rdfs:label", langLiteral(dataset.Title))
		statement("dcterms:title", langLiteral(dataset.Title))
	}
	if dataset.Description != "" {
		statement("rdfs:comment", langLiteral(dataset.Description))
		statement("dcterms:description", langLiteral(dataset.Description))
	}
	if dataset.Issued != nil {
		statement("dcterms:issued", dateTimeLiteral(*dataset.Issued))
	}
	if dataset.Modified != nil {
		statement("dcterms:modified", dateTimeLiteral(*dataset.Modified))
	}
	if dataset.Publisher != "" {
		statement("dcterms:publisher", iri(dataset.Publisher))
	}
	if dataset.Creator != "" {
		statement("dcterms:creator", iri(dataset.Creator))
	}
	if dataset.Theme != "" {
		theme := dataset.Theme
		if !strings.Contains(theme, "://") {
			theme = themeBase + utils.Pathify(theme)
		}
		statement("dcat:theme", iri(theme))
	}
	if dataset.LandingPage != "" {
		statement("dcat:landingPage", iri(dataset.LandingPage))
	}
	if family != "" {
		statement("gdp:family", "gdp:"+family)
	}
	fmt.Fprint(bw, " .\n}\n")

	return bw.Flush()
}

func iri(s string) string {
	r := strings.NewReplacer("<", "%3C", ">", "%3E", " ", "%20", `"`, "%22", "{", "%7B", "}", "%7D", `\`, "%5C")
	return "<" + r.Replace(s) + ">"
}

func langLiteral(s string) string {
	return quote(s) + "@en"
}

func dateTimeLiteral(t time.Time) string {
	return quote(t.UTC().Format("2006-01-02T15:04:05Z")) + "^^xsd:dateTime"
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
	return `"` + r.Replace(s) + `"`
}
