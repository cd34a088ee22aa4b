// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package draw

import (
	"encoding/xml"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"

	"github.com/js-arias/blind"
	"github.com/js-arias/treedate/mutree"
	"github.com/js-arias/treedate/sampledate"
)

const yStep = 12

var (
	black = color.RGBA{0, 0, 0, 255}
	gray  = color.RGBA{160, 160, 160, 255}
)

type node struct {
	x     float64
	y     int
	topY  int
	botY  int
	color color.Color

	id   int
	tax  string
	time float64 // time since the root, in scale units

	anc  *node
	desc []*node
}

type svgTree struct {
	y     int
	x     float64
	taxSz int
	root  *node

	step  float64
	scale float64
	max   float64 // time of the most recent terminal

	// date of the root,
	// NaN if undefined
	origin float64

	tick tickValues
}

func copyTree(t *mutree.Tree, step, scale float64, tv tickValues) (svgTree, error) {
	rtt, err := t.RootToTip()
	if err != nil {
		return svgTree{}, err
	}

	maxSz := 0
	var root *node
	ids := make(map[int]*node)
	for _, id := range t.Nodes() {
		var anc *node
		if p := t.Parent(id); p >= 0 {
			anc = ids[p]
		}

		n := &node{
			id:    id,
			tax:   t.Taxon(id),
			anc:   anc,
			time:  rtt[id] / scale,
			color: black,
		}
		if anc == nil {
			root = n
		} else {
			anc.desc = append(anc.desc, n)
		}
		ids[id] = n
		if !t.IsTerm(id) {
			continue
		}
		if len(n.tax) > maxSz {
			maxSz = len(n.tax)
		}
	}

	s := svgTree{
		root:   root,
		step:   step,
		scale:  scale,
		origin: math.NaN(),
		tick:   tv,
	}
	s.prepare(root)
	s.y = s.y * yStep
	s.taxSz = maxSz

	return s, nil
}

func (s *svgTree) prepare(n *node) {
	n.x = n.time*s.step + 10
	if s.x < n.x {
		s.x = n.x
	}
	if s.max < n.time {
		s.max = n.time
	}

	if n.desc == nil {
		n.y = s.y*yStep + 5
		s.y += 1
		return
	}

	botY := 0
	topY := math.MaxInt
	for _, d := range n.desc {
		s.prepare(d)
		if d.y < topY {
			topY = d.y
		}
		if d.y > botY {
			botY = d.y
		}
	}
	n.topY = topY
	n.botY = botY
	n.y = topY + (botY-topY)/2
}

// SetDates colors the terminals by its sampling date
// and sets the date of the root
// as the average over the dated terminals.
func (s *svgTree) setDates(st *sampledate.Table) {
	dates := make(map[*node]float64)
	s.root.dates(st, dates)
	if len(dates) == 0 {
		return
	}

	min, max := math.Inf(1), math.Inf(-1)
	var sum float64
	for n, d := range dates {
		min = math.Min(min, d)
		max = math.Max(max, d)
		sum += d - n.time*s.scale
	}
	s.origin = sum / float64(len(dates))
	s.root.setColor(dates, min, max)
}

func (n *node) dates(st *sampledate.Table, dates map[*node]float64) {
	if n.desc == nil {
		if d, ok := st.Time(n.tax); ok {
			dates[n] = d
		}
		return
	}
	for _, d := range n.desc {
		d.dates(st, dates)
	}
}

func (n *node) setColor(dates map[*node]float64, min, max float64) {
	if n.desc == nil {
		n.color = gray
		if d, ok := dates[n]; ok {
			var v float64
			if max > min {
				v = (d - min) / (max - min)
			}
			n.color = blind.Sequential(blind.Iridescent, v)
		}
		return
	}
	for _, d := range n.desc {
		d.setColor(dates, min, max)
	}
}

func (s *svgTree) draw(w io.Writer) error {
	height := s.y + 5
	if s.tick.min > 0 {
		height += 30
	}

	fmt.Fprintf(w, "%s", xml.Header)
	e := xml.NewEncoder(w)
	svg := xml.StartElement{
		Name: xml.Name{Local: "svg"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "height"}, Value: strconv.Itoa(height)},
			// assume that each character has 6 pixels wide
			{Name: xml.Name{Local: "width"}, Value: strconv.Itoa(int(s.x) + s.taxSz*6 + 20)},
			{Name: xml.Name{Local: "xmlns"}, Value: "http://www.w3.org/2000/svg"},
		},
	}
	e.EncodeToken(svg)

	g := xml.StartElement{
		Name: xml.Name{Local: "g"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "stroke-width"}, Value: "2"},
			{Name: xml.Name{Local: "stroke"}, Value: "black"},
			{Name: xml.Name{Local: "stroke-linecap"}, Value: "round"},
			{Name: xml.Name{Local: "font-family"}, Value: "Verdana"},
			{Name: xml.Name{Local: "font-size"}, Value: "10"},
		},
	}
	e.EncodeToken(g)

	s.root.draw(e)
	s.root.label(e)
	if s.tick.min > 0 {
		s.drawScale(e)
	}

	e.EncodeToken(g.End())
	e.EncodeToken(svg.End())
	if err := e.Flush(); err != nil {
		return err
	}
	return nil
}

func (n node) draw(e *xml.Encoder) {
	r, g, b, _ := n.color.RGBA()
	rgb := fmt.Sprintf("rgb(%d,%d,%d)", r>>8, g>>8, b>>8)

	// horizontal line
	ln := xml.StartElement{
		Name: xml.Name{Local: "line"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "x1"}, Value: strconv.Itoa(int(n.x - 5))},
			{Name: xml.Name{Local: "y1"}, Value: strconv.Itoa(n.y)},
			{Name: xml.Name{Local: "x2"}, Value: strconv.Itoa(int(n.x))},
			{Name: xml.Name{Local: "y2"}, Value: strconv.Itoa(n.y)},
			{Name: xml.Name{Local: "stroke"}, Value: rgb},
		},
	}
	if n.anc != nil {
		ln.Attr[0].Value = strconv.Itoa(int(n.anc.x))
	}
	e.EncodeToken(ln)
	e.EncodeToken(ln.End())

	if n.desc == nil {
		return
	}

	// vertical line
	ln.Attr[0].Value = ln.Attr[2].Value
	ln.Attr[1].Value = strconv.Itoa(n.topY)
	ln.Attr[3].Value = strconv.Itoa(n.botY)
	e.EncodeToken(ln)
	e.EncodeToken(ln.End())

	for _, d := range n.desc {
		d.draw(e)
	}
}

func (n node) label(e *xml.Encoder) {
	if n.desc == nil {
		tx := xml.StartElement{
			Name: xml.Name{Local: "text"},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "x"}, Value: strconv.Itoa(int(n.x + 10))},
				{Name: xml.Name{Local: "y"}, Value: strconv.Itoa(n.y + 5)},
				{Name: xml.Name{Local: "stroke-width"}, Value: "0"},
				{Name: xml.Name{Local: "font-style"}, Value: "italic"},
			},
		}
		e.EncodeToken(tx)
		e.EncodeToken(xml.CharData(n.tax))
		e.EncodeToken(tx.End())
	}

	for _, d := range n.desc {
		d.label(e)
	}
}

func (s *svgTree) drawScale(e *xml.Encoder) {
	y := s.y + 10
	maxX := s.max*s.step + 10

	ln := xml.StartElement{
		Name: xml.Name{Local: "line"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "x1"}, Value: "10"},
			{Name: xml.Name{Local: "y1"}, Value: strconv.Itoa(y)},
			{Name: xml.Name{Local: "x2"}, Value: strconv.Itoa(int(maxX))},
			{Name: xml.Name{Local: "y2"}, Value: strconv.Itoa(y)},
			{Name: xml.Name{Local: "stroke-width"}, Value: "1"},
		},
	}
	e.EncodeToken(ln)
	e.EncodeToken(ln.End())

	for i := 0; float64(i) <= s.max; i += s.tick.min {
		x := strconv.Itoa(int(float64(i)*s.step + 10))
		sz := 3
		if s.tick.max > 0 && i%s.tick.max == 0 {
			sz = 6
		}
		ln.Attr[0].Value = x
		ln.Attr[1].Value = strconv.Itoa(y)
		ln.Attr[2].Value = x
		ln.Attr[3].Value = strconv.Itoa(y + sz)
		e.EncodeToken(ln)
		e.EncodeToken(ln.End())

		if s.tick.label <= 0 || i%s.tick.label != 0 {
			continue
		}
		tx := xml.StartElement{
			Name: xml.Name{Local: "text"},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "x"}, Value: x},
				{Name: xml.Name{Local: "y"}, Value: strconv.Itoa(y + 18)},
				{Name: xml.Name{Local: "stroke-width"}, Value: "0"},
				{Name: xml.Name{Local: "text-anchor"}, Value: "middle"},
				{Name: xml.Name{Local: "font-size"}, Value: "8"},
			},
		}
		e.EncodeToken(tx)
		e.EncodeToken(xml.CharData(s.tickLabel(i)))
		e.EncodeToken(tx.End())
	}
}

func (s *svgTree) tickLabel(i int) string {
	if math.IsNaN(s.origin) {
		return strconv.Itoa(i)
	}
	return sampledate.Format(s.origin + float64(i)*s.scale)
}
