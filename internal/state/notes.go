package state

import (
	"context"

	"taskboard/internal/models"
)

// AddNote appends a note authored by the acting user. Open to every
// authenticated role, which is deliberately broader than the other
// mutations.
func (s *Store) AddNote(ctx context.Context, actor models.User, taskID int64, content string) (models.Task, error) {
	if !models.Allowed(models.OpAddNote, actor.Role) {
		return models.Task{}, ErrPermission
	}

	parent, ok := s.Task(taskID)
	if !ok {
		return models.Task{}, ErrNotFound
	}

	created, err := s.gw.CreateNote(ctx, models.Note{
		TaskID:     taskID,
		AuthorID:   actor.ID,
		AuthorName: actor.Name,
		Content:    content,
	})
	if err != nil {
		return models.Task{}, err
	}

	parent.Notes = append(append([]models.Note(nil), parent.Notes...), created)
	s.replaceTask(parent)
	return parent, nil
}

// UpdateNote rewrites a note's content. Allowed for the author and for
// coordinators.
func (s *Store) UpdateNote(ctx context.Context, actor models.User, taskID, noteID int64, content string) (models.Task, error) {
	parent, note, ok := s.findNote(taskID, noteID)
	if !ok {
		return models.Task{}, ErrNotFound
	}
	if !models.Allowed(models.OpEditNote, actor.Role) && note.AuthorID != actor.ID {
		return models.Task{}, ErrPermission
	}

	updated, err := s.gw.UpdateNote(ctx, noteID, content)
	if err != nil {
		return models.Task{}, err
	}

	notes := make([]models.Note, len(parent.Notes))
	copy(notes, parent.Notes)
	for i := range notes {
		if notes[i].ID == noteID {
			notes[i] = updated
			break
		}
	}
	parent.Notes = notes
	s.replaceTask(parent)
	return parent, nil
}

// DeleteNote removes a note. Allowed for the author and for coordinators.
func (s *Store) DeleteNote(ctx context.Context, actor models.User, taskID, noteID int64) (models.Task, error) {
	parent, note, ok := s.findNote(taskID, noteID)
	if !ok {
		return models.Task{}, ErrNotFound
	}
	if !models.Allowed(models.OpDeleteNote, actor.Role) && note.AuthorID != actor.ID {
		return models.Task{}, ErrPermission
	}

	if err := s.gw.DeleteNote(ctx, noteID); err != nil {
		return models.Task{}, err
	}

	notes := make([]models.Note, 0, len(parent.Notes))
	for _, n := range parent.Notes {
		if n.ID != noteID {
			notes = append(notes, n)
		}
	}
	parent.Notes = notes
	s.replaceTask(parent)
	return parent, nil
}

func (s *Store) findNote(taskID, noteID int64) (models.Task, models.Note, bool) {
	parent, ok := s.Task(taskID)
	if !ok {
		return models.Task{}, models.Note{}, false
	}
	for _, n := range parent.Notes {
		if n.ID == noteID {
			return parent, n, true
		}
	}
	return models.Task{}, models.Note{}, false
}
