package seed

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"dsasheet/internal/domain"
)

// Normalize turns the flat API question list into the nested
// Topic → SubTopic → Question tree.
//
// Ordering: topics follow the sheet's topicOrder when present, otherwise
// first-seen order; questions inside a sub-topic follow
// questionOrder[topic][subTopic] when present, otherwise first-seen order.
// Ordered ids with no matching record are dropped. Sub-topics that end up
// empty are skipped, as are topics with no sub-topics left.
func Normalize(api *APISheet) ([]domain.Topic, error) {
	if api == nil || api.Questions == nil {
		return nil, fmt.Errorf("invalid sheet: no questions")
	}

	// Index every record by its external id.
	questionByID := make(map[string]domain.Question, len(api.Questions))
	for _, q := range api.Questions {
		questionByID[q.ID] = toQuestion(q)
	}

	// Group question ids by (topic, subTopic), preserving first-seen order.
	type group struct {
		subOrder []string
		subIDs   map[string][]string
	}
	groups := make(map[string]*group)
	var topicSeen []string
	for _, q := range api.Questions {
		topicName := q.Topic
		if topicName == "" {
			topicName = "Uncategorized"
		}
		subName := q.SubTopic
		if subName == "" {
			subName = "General"
		}

		g, ok := groups[topicName]
		if !ok {
			g = &group{subIDs: make(map[string][]string)}
			groups[topicName] = g
			topicSeen = append(topicSeen, topicName)
		}
		if _, ok := g.subIDs[subName]; !ok {
			g.subOrder = append(g.subOrder, subName)
		}
		g.subIDs[subName] = append(g.subIDs[subName], q.ID)
	}

	topicOrder := api.Sheet.Config.TopicOrder
	if len(topicOrder) == 0 {
		topicOrder = topicSeen
	}
	questionOrder := api.Sheet.Config.QuestionOrder

	usedSlugs := make(map[string]int)
	var topics []domain.Topic
	for _, topicName := range topicOrder {
		g, ok := groups[topicName]
		if !ok {
			continue
		}

		var subTopics []domain.SubTopic
		for _, subName := range g.subOrder {
			ids := g.subIDs[subName]
			if ordered, ok := questionOrder[topicName][subName]; ok {
				ids = ordered
			}

			var questions []domain.Question
			for _, id := range ids {
				if q, ok := questionByID[id]; ok {
					questions = append(questions, q)
				}
			}
			if len(questions) == 0 {
				continue
			}

			subTopics = append(subTopics, domain.SubTopic{
				ID:        subTopicID(topicName, subName),
				Title:     subName,
				Questions: questions,
			})
		}
		if len(subTopics) == 0 {
			continue
		}

		topics = append(topics, domain.Topic{
			ID:        topicID(topicName, usedSlugs),
			Title:     topicName,
			SubTopics: subTopics,
		})
	}

	return topics, nil
}

func toQuestion(q APIQuestion) domain.Question {
	out := domain.Question{
		ID:         q.ID,
		Title:      q.Title,
		Difficulty: domain.DifficultyUnknown,
		Platform:   domain.PlatformUnknown,
		Resource:   q.Resource,
	}
	if meta := q.QuestionID; meta != nil {
		if meta.Difficulty != "" {
			out.Difficulty = domain.Difficulty(meta.Difficulty)
		}
		if meta.Platform != "" {
			out.Platform = domain.Platform(meta.Platform)
		}
		out.ProblemURL = meta.ProblemURL
	}
	return out
}

// topicID derives a stable slug from the topic name, suffixing a counter
// when two names collapse to the same slug.
func topicID(name string, used map[string]int) string {
	slug := strings.ToLower(strings.Join(strings.Fields(name), "-"))
	if slug == "" {
		slug = "topic"
	}
	used[slug]++
	if n := used[slug]; n > 1 {
		return fmt.Sprintf("%s-%d", slug, n)
	}
	return slug
}

// subTopicID carries both names for readability plus a random token,
// since sub-topic names are not globally unique.
func subTopicID(topicName, subName string) string {
	slug := func(s string) string {
		return strings.ToLower(strings.Join(strings.Fields(s), "-"))
	}
	return fmt.Sprintf("%s-%s-%s", slug(topicName), slug(subName), uuid.NewString()[:8])
}
