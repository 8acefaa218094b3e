// Package changelog provides the markdown changelog model used by chg.
//
// This package implements:
//   - The in-memory model: ChangeLog, ChangeSet, Header (Unreleased or Release) and ChangeItem
//   - CHANGELOG.md parsing with a Prolog/Section/Epilog line state machine
//   - Markdown rendering that is the exact inverse of the parser grammar
//   - The embedded <!-- CHANGELOG-CONFIG --> block (tag pattern, link templates)
//   - YAML export and terminal formatting for the info command
//
// Values are owned by the ChangeLog that contains them. Anything moving a
// changeset or item between changelogs must use the Clone methods.
package changelog
