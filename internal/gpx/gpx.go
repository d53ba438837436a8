// Package gpx renders repeater positions as GPX 1.1 documents suitable for
// Google Earth and other mapping tools.
package gpx

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/denvermesh/meshsync/internal/sources/meshmapper"
	"github.com/denvermesh/meshsync/pkg/constants"
	"github.com/denvermesh/meshsync/pkg/errors"
)

const (
	version   = "1.1"
	namespace = "http://www.topografix.com/GPX/1/1"
)

// Waypoint is a single GPX wpt element.
type Waypoint struct {
	Lat         float64 `xml:"lat,attr"`
	Lon         float64 `xml:"lon,attr"`
	Name        string  `xml:"name"`
	Description string  `xml:"desc,omitempty"`
}

// Document is the root GPX element.
type Document struct {
	XMLName   xml.Name   `xml:"gpx"`
	Version   string     `xml:"version,attr"`
	Creator   string     `xml:"creator,attr"`
	Namespace string     `xml:"xmlns,attr"`
	Waypoints []Waypoint `xml:"wpt"`
}

// FromRepeaters builds a GPX document from raw repeater records.
func FromRepeaters(repeaters []meshmapper.Repeater) *Document {
	doc := &Document{
		Version:   version,
		Creator:   constants.UserAgent,
		Namespace: namespace,
		Waypoints: make([]Waypoint, 0, len(repeaters)),
	}
	for _, r := range repeaters {
		doc.Waypoints = append(doc.Waypoints, Waypoint{
			Lat:         r.Lat,
			Lon:         r.Lon,
			Name:        r.Name,
			Description: fmt.Sprintf("Power: %s, Last Heard: %d", r.Power, r.LastHeard),
		})
	}
	return doc
}

// Write serializes the document as indented XML with the standard header.
func (d *Document) Write(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return errors.WrapIO("write", "", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(d); err != nil {
		return errors.WrapIO("write", "", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
