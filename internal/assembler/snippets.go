package assembler

import "fmt"

const (
	refreshListener = `
document.addEventListener('section-loaded', function() {
  if (typeof %[1]s !== 'undefined' && typeof %[1]s.scrollTrigger !== 'undefined') {
    %[1]s.scrollTrigger.refresh();
  }
});
`
	eagerImages = `gsap.utils.toArray('#%s img').forEach(function(image) {
  image.removeAttribute('loading');
});
`
)

// refreshSnippet refreshes the timeline's scroll trigger whenever a section
// finishes loading.
func refreshSnippet(timeline string) string {
	return fmt.Sprintf(refreshListener, timeline)
}

// eagerImagesSnippet drops lazy loading from images inside the section so
// scroll positions are measured against their real size.
func eagerImagesSnippet(sectionID string) string {
	return fmt.Sprintf(eagerImages, sectionID)
}

// needsEagerImages reports whether the section anchor differs from the raw
// block ID and is not numeric.
func needsEagerImages(sectionID, blockID string) bool {
	return sectionID != blockID && !IsNumeric(sectionID)
}
