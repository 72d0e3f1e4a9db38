package services

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/offerready/interviewai/internal/models"
)

//go:embed data/positions.json
var positionsData []byte

// PositionService serves the static position catalog and the keyword lookups
// used to enrich interview prompts. The catalog is embedded at build time and
// flattened once at construction.
type PositionService interface {
	Categories() []models.PositionCategory
	List() []models.PositionInfo
	FindByID(id string) (*models.PositionInfo, bool)
	Search(keyword string) []models.PositionInfo
	// FullName renders "父级 - 子级" for sub-positions, the plain name
	// otherwise. Unknown ids come back unchanged.
	FullName(id string) string
	// Keywords resolves by id or display name; positions outside the catalog
	// yield nil (free-form positions are allowed).
	Keywords(position string) []string
}

type positionService struct {
	catalog *models.PositionCatalog
	flat    []models.PositionInfo
	byID    map[string]*models.PositionInfo
	byName  map[string]*models.PositionInfo
}

func NewPositionService() (PositionService, error) {
	var catalog models.PositionCatalog
	if err := json.Unmarshal(positionsData, &catalog); err != nil {
		return nil, fmt.Errorf("decode embedded positions catalog: %w", err)
	}

	s := &positionService{
		catalog: &catalog,
		byID:    make(map[string]*models.PositionInfo),
		byName:  make(map[string]*models.PositionInfo),
	}
	s.flatten()
	return s, nil
}

func (s *positionService) flatten() {
	for _, cat := range s.catalog.Categories {
		for _, pos := range cat.Positions {
			s.add(models.PositionInfo{
				ID:           pos.ID,
				Name:         pos.Name,
				Description:  pos.Description,
				Keywords:     pos.Keywords,
				CategoryName: cat.Name,
				IsParent:     true,
				HasChildren:  len(pos.SubPositions) > 0,
			})

			for _, sub := range pos.SubPositions {
				s.add(models.PositionInfo{
					ID:           sub.ID,
					Name:         sub.Name,
					Description:  sub.Description,
					Keywords:     mergeKeywords(pos.Keywords, sub.Keywords),
					CategoryName: cat.Name,
					ParentID:     pos.ID,
					ParentName:   pos.Name,
				})
			}
		}
	}
}

func (s *positionService) add(info models.PositionInfo) {
	s.flat = append(s.flat, info)
	stored := &s.flat[len(s.flat)-1]
	s.byID[info.ID] = stored
	if _, taken := s.byName[info.Name]; !taken {
		s.byName[info.Name] = stored
	}
	if info.ParentName != "" {
		s.byName[info.ParentName+" - "+info.Name] = stored
	}
}

// mergeKeywords combines child and parent keywords, child first, without
// duplicates.
func mergeKeywords(parent, child []string) []string {
	seen := make(map[string]bool, len(parent)+len(child))
	out := make([]string, 0, len(parent)+len(child))
	for _, kw := range append(append([]string{}, child...), parent...) {
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		out = append(out, kw)
	}
	return out
}

func (s *positionService) Categories() []models.PositionCategory { return s.catalog.Categories }

func (s *positionService) List() []models.PositionInfo { return s.flat }

func (s *positionService) FindByID(id string) (*models.PositionInfo, bool) {
	info, ok := s.byID[strings.TrimSpace(id)]
	return info, ok
}

func (s *positionService) Search(keyword string) []models.PositionInfo {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return nil
	}

	var out []models.PositionInfo
	for _, info := range s.flat {
		if strings.Contains(strings.ToLower(info.Name), keyword) ||
			strings.Contains(strings.ToLower(info.Description), keyword) {
			out = append(out, info)
			continue
		}
		for _, kw := range info.Keywords {
			if strings.Contains(strings.ToLower(kw), keyword) {
				out = append(out, info)
				break
			}
		}
	}
	return out
}

func (s *positionService) FullName(id string) string {
	info, ok := s.byID[id]
	if !ok {
		return id
	}
	if info.ParentName != "" {
		return info.ParentName + " - " + info.Name
	}
	return info.Name
}

func (s *positionService) Keywords(position string) []string {
	position = strings.TrimSpace(position)
	if info, ok := s.byID[position]; ok {
		return info.Keywords
	}
	if info, ok := s.byName[position]; ok {
		return info.Keywords
	}
	return nil
}
