// Copyright (c) 2025 Thorium

package installer

import (
	"fmt"

	"github.com/suprsokr/kotorpatcher/internal/ini"
)

// Namespace is one selectable install profile within a multi-profile
// mod (spec §3 "Namespace", §6 "namespaces.ini format").
type Namespace struct {
	ID          string
	Name        string
	Description string
	IniName     string
	InfoName    string
	DataPath    string
}

// ParseNamespaces parses a namespaces.ini file's [Namespaces] section
// and every section it references, preserving declaration order.
func ParseNamespaces(raw []byte) ([]Namespace, error) {
	f := ini.Parse(raw)
	listing := f.Section("Namespaces")
	if listing == nil {
		return nil, fmt.Errorf("namespaces.ini has no [Namespaces] section")
	}

	var out []Namespace
	for _, entry := range listing.Entries {
		if entry.Value == nil {
			return nil, fmt.Errorf("namespaces.ini: key %q has no section id", entry.Key)
		}
		sectionID := *entry.Value
		sec := f.Section(sectionID)
		if sec == nil {
			return nil, fmt.Errorf("namespaces.ini: section %q referenced by %q not found", sectionID, entry.Key)
		}
		iniName, _ := sec.Get("IniName")
		if iniName == "" {
			return nil, fmt.Errorf("namespaces.ini: section %q missing IniName", sectionID)
		}
		infoName, _ := sec.Get("InfoName")
		name, _ := sec.Get("Name")
		desc, _ := sec.Get("Description")
		dataPath, _ := sec.Get("DataPath")
		out = append(out, Namespace{
			ID:          sectionID,
			Name:        name,
			Description: desc,
			IniName:     iniName,
			InfoName:    infoName,
			DataPath:    dataPath,
		})
	}
	return out, nil
}
