// Package xmlstatus parses the XML document printed by the status and
// statusAll modes of iTMSTransporter (requested with -outputFormat xml).
//
// The document has one element per delivered package:
//
//	<upload_status>
//	  <upload_status apple_identifier="X9123X" vendor_identifier="123123">
//	    <content_status_info content_status="Unpolished" ...>
//	      <store_status not_on_store="" on_store="" ready_for_store="US"/>
//	      <video_components>
//	        <video_component component_name="Video" component_locale="N/A" .../>
//	      </video_components>
//	    </content_status_info>
//	    <upload_status_info created="2016-11-25 10:38:09" status="Imported"/>
//	  </upload_status>
//	</upload_status>
//
// When the tool fails it may print a root element holding only an error
// summary text; that payload is reported as a parse error, never as an
// empty result.
package xmlstatus
